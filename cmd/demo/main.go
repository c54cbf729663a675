package main

import (
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/yiblet/recent/internal/history"
	"github.com/yiblet/recent/internal/settings"
	"github.com/yiblet/recent/internal/store"
	"github.com/yiblet/recent/internal/store/memstore"
)

func main() {
	fmt.Println("recent history demo")

	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	// Seed the legacy single-value setting the way an older install would have.
	seed := memstore.NewMemoryStore()
	page := 604
	if err := settings.Set(settings.New(seed.Config()), settings.LastViewedPage, &page); err != nil {
		log.Fatalf("Failed to seed legacy page: %v", err)
	}

	legacy := settings.LegacyPage(settings.New(seed.Config()))
	st, err := memstore.NewMemoryStoreWithOptions(store.Options{Legacy: legacy, Clock: clock})
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	defer st.Close()

	hm := history.NewManager(st.Recent(), nil)
	printHistory("After migrating LastViewedPage", hm)

	fmt.Println("\nVisiting pages 1..5:")
	for p := 1; p <= 5; p++ {
		clock.Advance(time.Minute)
		if _, err := hm.Visit(p); err != nil {
			log.Fatalf("Failed to visit page %d: %v", p, err)
		}
		fmt.Printf("  visited %d\n", p)
	}
	printHistory("\nHistory (at most 3, newest first)", hm)

	clock.Advance(time.Minute)
	if _, err := hm.Visit(4); err != nil {
		log.Fatalf("Failed to revisit page 4: %v", err)
	}
	printHistory("\nAfter revisiting page 4", hm)

	clock.Advance(time.Minute)
	if _, err := hm.Move(0, 6); err != nil {
		log.Fatalf("Failed to move entry 0: %v", err)
	}
	printHistory("\nAfter moving entry 0 to page 6", hm)
}

func printHistory(title string, hm *history.Manager) {
	records, err := hm.List()
	if err != nil {
		log.Fatalf("Failed to list history: %v", err)
	}
	fmt.Printf("%s:\n", title)
	for i, r := range records {
		fmt.Printf("  %d. page %d [%s]\n", i, r.Item, r.ModifiedAt.Format("15:04:05"))
	}
}
