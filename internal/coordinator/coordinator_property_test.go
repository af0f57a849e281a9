package coordinator

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/fixturerun/internal/fixture"
)

// TestDeduplicationProperties checks, for random registration sets, that one
// setup runs per distinct identity and that items sharing an identity share
// the outcome pointer.
func TestDeduplicationProperties(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	types := []string{"Alpha", "Beta", "Gamma"}

	// Each generated int encodes a (type, parameter) pair.
	properties.Property("one setup per distinct identity", prop.ForAll(
		func(codes []int) bool {
			counters := make(map[string]*counter, len(types))
			for _, name := range types {
				counters[name] = &counter{}
			}
			c := newTestCoordinator(t, counters)

			byKey := make(map[fixture.Key][]string)
			for i, code := range codes {
				id := fixture.NewIdentity(types[code%len(types)], strconv.Itoa(code/len(types)))
				item := "item-" + strconv.Itoa(i)
				if err := c.Register(item, id); err != nil {
					return false
				}
				byKey[id.Key()] = append(byKey[id.Key()], item)
			}

			if jobs := c.RunPendingSetups(context.Background()); jobs != len(byKey) {
				return false
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := c.AwaitAllSetups(ctx); err != nil {
				return false
			}

			var setups int32
			for _, p := range counters {
				setups += p.setups.Load()
			}
			if int(setups) != len(byKey) {
				return false
			}

			seen := make(map[*Outcome]bool)
			for _, items := range byKey {
				first, ok := c.Outcome(items[0])
				if !ok || seen[first] {
					return false
				}
				seen[first] = true
				for _, item := range items[1:] {
					if o, _ := c.Outcome(item); o != first {
						return false
					}
				}
			}

			report := c.RunPendingTeardowns(context.Background())
			return report.Scheduled == len(byKey)
		},
		gen.SliceOf(gen.IntRange(0, 8)),
	))

	properties.TestingRun(t)
}
