package script

// costPerToken stores per-1K-token pricing for the models we route to.
// Prices in USD per 1K tokens: [input, output].
var costPerToken = map[string][2]float64{
	// Anthropic
	"claude-sonnet-4-5": {0.003, 0.015},
	"claude-haiku-4-5":  {0.001, 0.005},

	// OpenAI
	"gpt-4o":      {0.005, 0.015},
	"gpt-4o-mini": {0.00015, 0.0006},

	// Embeddings (script archive)
	"text-embedding-3-small": {0.00002, 0},
}

func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	prices, ok := costPerToken[model]
	if !ok {
		return 0
	}
	inputCost := float64(inputTokens) / 1000.0 * prices[0]
	outputCost := float64(outputTokens) / 1000.0 * prices[1]
	return inputCost + outputCost
}
