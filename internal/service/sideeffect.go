package service

import (
	"context"
	"log"
)

// SideEffect is one best-effort action run after a primary write commits:
// notification fan-out, confirmation mail, queue publish.  A side effect
// must never roll back or fail the primary operation.
type SideEffect struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunSideEffects executes each hook in order.  Every failure, including a
// panic, is caught and logged; the remaining hooks still run.
func RunSideEffects(ctx context.Context, effects ...SideEffect) {
	for _, e := range effects {
		runOne(ctx, e)
	}
}

func runOne(ctx context.Context, e SideEffect) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sideeffect %s: panic recovered: %v", e.Name, r)
		}
	}()
	if err := e.Run(ctx); err != nil {
		log.Printf("sideeffect %s: %v", e.Name, err)
	}
}
