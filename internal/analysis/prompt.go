package analysis

// Model is the Ollama vision model used for every analysis. llava:7b is
// faster on CPU-only machines.
const Model = "llava:13b"

// NoImagePrompt is returned when analysis is requested without an image.
const NoImagePrompt = "Please upload a chart image to begin analysis."

const instruction = "You are an expert financial technical analyst specializing in stocks and cryptocurrencies.\n\n" +
	"Analyze this chart screenshot in extreme professional detail:\n" +
	"- Identify the asset/ticker symbol and time frame\n" +
	"- Determine the overall trend (bullish, bearish, or sideways/consolidation)\n" +
	"- Detect and describe key technical patterns (e.g., head and shoulders, triangles, flags, double top/bottom, channels)\n" +
	"- Identify major support and resistance levels with approximate prices\n" +
	"- Note all visible indicators (e.g., RSI, MACD, moving averages, volume, Bollinger Bands) and their current signals\n" +
	"- Assess momentum, volume trends, and potential reversal or continuation signals\n" +
	"- Provide an objective summary with risks, opportunities, and potential price targets\n\n" +
	"Structure your response clearly with bullet points for readability."

const remediation = "Common fixes:\n" +
	"- Ensure Ollama is running (`ollama serve` in a terminal)\n" +
	"- Confirm the llava model is pulled (`ollama pull llava:13b` or `llava:7b`)\n" +
	"- For faster performance, try the 7B model"

// Instruction returns the fixed analyst instruction sent with every chart.
func Instruction() string {
	return instruction
}
