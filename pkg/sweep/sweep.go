package sweep

import (
	"context"
	"fmt"
	"sort"

	mapsutil "github.com/projectdiscovery/utils/maps"
	syncutil "github.com/projectdiscovery/utils/sync"

	"github.com/lanscout/lanscout/pkg/segment"
)

// DefaultWidth is the default number of in-flight liveness probes.
const DefaultWidth = 80

// Checker is the reachability capability used by the sweep pool. Check
// reports whether the address answered and, when derivable, the TTL of the
// reply (0 when unknown). Per-host failures are not errors: an unreachable
// host is simply not alive.
type Checker interface {
	// Available reports whether the underlying reachability facility
	// exists; an error here is fatal for the whole run.
	Available() error
	Check(ctx context.Context, addr segment.Addr) (alive bool, ttl int)
}

// Result is one alive address with its optional TTL hint.
type Result struct {
	Addr segment.Addr
	TTL  int
}

// Run probes every address with at most width checks in flight and returns
// the alive subset sorted ascending by address.
func Run(ctx context.Context, checker Checker, addrs []segment.Addr, width int) ([]Result, error) {
	if err := checker.Available(); err != nil {
		return nil, fmt.Errorf("reachability check unavailable: %w", err)
	}
	if width <= 0 {
		width = DefaultWidth
	}

	alive := mapsutil.NewSyncLockMap[segment.Addr, int]()

	awg, err := syncutil.New(syncutil.WithSize(width))
	if err != nil {
		return nil, fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	for _, addr := range orderByPriority(addrs) {
		select {
		case <-ctx.Done():
			goto done
		default:
		}

		awg.Add()
		go func(addr segment.Addr) {
			defer awg.Done()
			if ok, ttl := checker.Check(ctx, addr); ok {
				_ = alive.Set(addr, ttl)
			}
		}(addr)
	}

done:
	awg.Wait()

	var results []Result
	_ = alive.Iterate(func(addr segment.Addr, ttl int) error {
		results = append(results, Result{Addr: addr, TTL: ttl})
		return nil
	})
	sort.Slice(results, func(i, j int) bool { return results[i].Addr < results[j].Addr })
	return results, nil
}
