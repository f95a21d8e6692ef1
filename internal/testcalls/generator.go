package testcalls

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/okian/mayday/pkg/logger"
)

// scenario groups phrases that a mock transcription engine echoes back
// verbatim, so each one drives a known classification path.
type scenario struct {
	name    string
	phrases []string
}

var scenarios = []scenario{
	{
		name: "fire",
		phrases: []string{
			"there is a fire in the kitchen",
			"i can see smoke coming from the building next door",
			"the curtains are burning and it is spreading fast",
		},
	},
	{
		name: "medical",
		phrases: []string{
			"my father is unconscious and not breathing",
			"there is a lot of blood he is badly hurt",
			"she has chest pain and her heart is racing",
		},
	},
	{
		name: "violence",
		phrases: []string{
			"someone is trying to attack me please help",
			"there is a man with a weapon outside my door",
			"i am scared he keeps making threats",
		},
	},
	{
		name: "accident",
		phrases: []string{
			"a truck and a car just crashed on the highway",
			"there was a collision at the intersection",
			"my vehicle went off the road",
		},
	},
	{
		name: "normal",
		phrases: []string{
			"i just wanted to check that this line works",
			"everything is fine thank you",
			"sorry wrong number",
		},
	},
}

// generateCalls creates synthetic submissions with a varied scenario mix.
func generateCalls(ctx context.Context, config *Config, stats *Stats) ([]Call, error) {
	logger.Get().Info(ctx, "generating synthetic calls", logger.Int("numCalls", config.NumCalls))

	calls := make([]Call, config.NumCalls)
	for i := range calls {
		calls[i] = generateSingleCall()
	}

	stats.CallsGenerated = len(calls)
	logger.Get().Info(ctx, "generated calls successfully", logger.Int("count", len(calls)))

	return calls, nil
}

// generateSingleCall picks a random scenario and phrase. The audio
// payload is the phrase bytes; a mock transcriber returns them as-is.
func generateSingleCall() Call {
	s := scenarios[randomIndex(len(scenarios))]
	phrase := s.phrases[randomIndex(len(s.phrases))]
	return Call{
		Scenario: s.name,
		Phrase:   phrase,
		Audio:    []byte(phrase),
	}
}

// randomIndex returns a uniform index below n using crypto/rand.
func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}
