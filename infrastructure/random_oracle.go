package infrastructure

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// LocalRandomOracle produces draw seeds from crypto/rand in-process. It
// keeps only the seed for the most recently requested round, so a draw
// can never consume a seed produced for an earlier round.
type LocalRandomOracle struct {
	mu            sync.Mutex
	latestLottery int64
	seed          uint64
	ready         bool
}

// NewLocalRandomOracle creates a new local randomness oracle
func NewLocalRandomOracle() *LocalRandomOracle {
	return &LocalRandomOracle{}
}

func (o *LocalRandomOracle) RequestRandomNumber(ctx context.Context, lotteryID int64) error {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Errorf("failed to read random seed: %w", err)
	}

	o.mu.Lock()
	o.latestLottery = lotteryID
	o.seed = binary.BigEndian.Uint64(buf[:])
	o.ready = true
	o.mu.Unlock()

	log.WithField("lottery_id", lotteryID).Info("Random seed generated")
	return nil
}

func (o *LocalRandomOracle) IsResultReadyFor(ctx context.Context, lotteryID int64) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ready && o.latestLottery == lotteryID, nil
}

func (o *LocalRandomOracle) ResultFor(ctx context.Context, lotteryID int64) (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready || o.latestLottery != lotteryID {
		return 0, fmt.Errorf("no seed available for lottery %d", lotteryID)
	}
	return o.seed, nil
}
