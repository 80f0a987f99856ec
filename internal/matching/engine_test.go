package matching

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func deterministicIntn(seed int64) IntnFunc {
	r := rand.New(rand.NewSource(seed))
	return func(n int) (int, error) {
		return r.Intn(n), nil
	}
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%03d", i)
	}
	return ids
}

func assertDerangement(t *testing.T, ids []string, pairs []Pair) {
	t.Helper()
	if len(pairs) != len(ids) {
		t.Fatalf("pair count mismatch: got=%d expected=%d", len(pairs), len(ids))
	}
	givers := make(map[string]bool, len(ids))
	receivers := make(map[string]bool, len(ids))
	for _, p := range pairs {
		if p.GiverID == p.ReceiverID {
			t.Fatalf("participant matched to self: %s", p.GiverID)
		}
		if givers[p.GiverID] {
			t.Fatalf("duplicate giver: %s", p.GiverID)
		}
		if receivers[p.ReceiverID] {
			t.Fatalf("duplicate receiver: %s", p.ReceiverID)
		}
		givers[p.GiverID] = true
		receivers[p.ReceiverID] = true
	}
	for _, id := range ids {
		if !givers[id] {
			t.Fatalf("missing giver: %s", id)
		}
		if !receivers[id] {
			t.Fatalf("missing receiver: %s", id)
		}
	}
}

func TestDrawDerangementProperty(t *testing.T) {
	engine := NewEngineWithSource(deterministicIntn(42), DefaultMaxRetries)
	sizeRand := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		n := 2 + sizeRand.Intn(49)
		ids := makeIDs(n)
		pairs, err := engine.Draw(ids)
		if err != nil {
			t.Fatalf("draw failed for n=%d: %v", n, err)
		}
		assertDerangement(t, ids, pairs)
	}
}

func TestDrawInsufficientParticipants(t *testing.T) {
	engine := NewEngine()
	for _, ids := range [][]string{nil, {}, {"p1"}} {
		if _, err := engine.Draw(ids); !errors.Is(err, ErrInsufficientParticipants) {
			t.Fatalf("expected ErrInsufficientParticipants for n=%d, got %v", len(ids), err)
		}
	}
}

func TestDrawTwoParticipantsAlwaysSwap(t *testing.T) {
	engine := NewEngineWithSource(deterministicIntn(1), DefaultMaxRetries)
	for i := 0; i < 100; i++ {
		pairs, err := engine.Draw([]string{"p1", "p2"})
		if err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		if pairs[0] != (Pair{GiverID: "p1", ReceiverID: "p2"}) || pairs[1] != (Pair{GiverID: "p2", ReceiverID: "p1"}) {
			t.Fatalf("n=2 must always swap, got %v", pairs)
		}
	}
}

func TestDrawDistributionSanity(t *testing.T) {
	// n=3 仅有两个合法错排：(2,3,1) 与 (3,1,2)
	// 整体重抽应让二者出现概率各约 50%，就地修补类实现会在此失衡
	engine := NewEngineWithSource(deterministicIntn(99), DefaultMaxRetries)
	ids := []string{"a", "b", "c"}
	counts := map[string]int{}
	const rounds = 10000
	for i := 0; i < rounds; i++ {
		pairs, err := engine.Draw(ids)
		if err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		key := ""
		for _, p := range pairs {
			key += p.ReceiverID
		}
		counts[key]++
	}
	if len(counts) != 2 {
		t.Fatalf("expected exactly 2 derangements for n=3, got %d: %v", len(counts), counts)
	}
	for key, count := range counts {
		if count < rounds*40/100 || count > rounds*60/100 {
			t.Fatalf("derangement %s outside tolerance: %d of %d", key, count, rounds)
		}
	}
}

func TestDrawRetryExhausted(t *testing.T) {
	// 恒等洗牌每次都产生全不动点，重抽必然耗尽
	identity := func(n int) (int, error) { return n - 1, nil }
	engine := NewEngineWithSource(identity, 10)
	if _, err := engine.Draw(makeIDs(5)); !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
}

func TestDrawSourceError(t *testing.T) {
	broken := func(n int) (int, error) { return 0, errors.New("entropy unavailable") }
	engine := NewEngineWithSource(broken, DefaultMaxRetries)
	if _, err := engine.Draw(makeIDs(4)); err == nil {
		t.Fatal("expected error from broken random source")
	}
}
