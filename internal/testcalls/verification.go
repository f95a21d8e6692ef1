package testcalls

import (
	"context"
	"fmt"
	"log"
)

// verifyResults cross-checks the submission responses, the stored feed
// and the events seen on the live WebSocket connection.
func verifyResults(ctx context.Context, config *Config, submitted, stored, observed []Event, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(submitted) == 0 {
		return fmt.Errorf("no successful submissions to verify")
	}

	storedByID := indexByID(stored)
	observedByID := indexByID(observed)

	var missingStored, missingObserved int
	for _, event := range submitted {
		if _, ok := storedByID[event.ID]; !ok {
			missingStored++
			if config.Verbose {
				log.Printf("⚠️  Event %s missing from stored feed", event.ID)
			}
		}
		if _, ok := observedByID[event.ID]; !ok {
			missingObserved++
			if config.Verbose {
				log.Printf("⚠️  Event %s never seen on the live feed", event.ID)
			}
		}
	}

	// A best-effort store may legitimately drop writes; broadcasts for
	// successful submissions must all arrive.
	if missingStored > 0 {
		log.Printf("⚠️  Stored feed is missing %d of %d submitted events", missingStored, len(submitted))
	} else {
		log.Println("✅ Stored feed contains every submitted event")
	}
	if missingObserved > 0 {
		return fmt.Errorf("live feed missed %d of %d submitted events", missingObserved, len(submitted))
	}
	log.Println("✅ Live feed delivered every submitted event")

	verifyOrdering(stored)
	displayCategoryBreakdown(submitted)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyOrdering checks the feed is newest first.
func verifyOrdering(stored []Event) {
	for i := 1; i < len(stored); i++ {
		if stored[i].CreatedAt.After(stored[i-1].CreatedAt) {
			log.Printf("⚠️  Stored feed not newest-first at position %d", i)
			return
		}
	}
	log.Println("✅ Stored feed ordering verified (newest first)")
}

// displayCategoryBreakdown summarizes classifications seen.
func displayCategoryBreakdown(events []Event) {
	counts := make(map[string]int)
	for _, event := range events {
		counts[event.Category]++
	}
	log.Println("📊 Category breakdown:")
	for category, n := range counts {
		log.Printf("   %s: %d", category, n)
	}
}

// indexByID builds an ID lookup for a slice of events.
func indexByID(events []Event) map[string]Event {
	out := make(map[string]Event, len(events))
	for _, event := range events {
		out[event.ID] = event
	}
	return out
}
