package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

func newVoteFixture(t *testing.T) (*memStore, ports.VoterService, ports.VoteService) {
	t.Helper()
	store := newMemStore(testOptions...)
	voters := NewVoterService(store, textCodec{}, zap.NewNop())
	votes := NewVoteService(memVotes{store}, prefixCipher{}, testOptions, zap.NewNop())
	return store, voters, votes
}

func TestEndToEndLifecycle(t *testing.T) {
	store, voters, votes := newVoteFixture(t)
	ctx := context.Background()
	results := NewResultService(store)

	reg, err := voters.Register(ctx, validInput())
	require.NoError(t, err)

	summary, err := voters.AuthenticateImage(ctx, reg.Credential)
	require.NoError(t, err)

	voted, err := votes.HasVoted(ctx, summary.ID)
	require.NoError(t, err)
	assert.False(t, voted)

	require.NoError(t, votes.Vote(ctx, ports.VoteInput{VoterID: summary.ID, Option: "DMK"}))

	err = votes.Vote(ctx, ports.VoteInput{VoterID: summary.ID, Option: "DMK"})
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	res, err := results.GetResults(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, res.Entries)
	assert.Equal(t, "DMK", res.Entries[0].Option)
	assert.Equal(t, int64(1), res.Entries[0].Count)
	assert.Equal(t, int64(1), res.TotalVotes)

	stored := store.votes[summary.ID]
	assert.Equal(t, "enc:DMK", stored.EncryptedSelection)
}

func TestVoteInvalidSelection(t *testing.T) {
	store, _, votes := newVoteFixture(t)
	ctx := context.Background()

	err := votes.Vote(ctx, ports.VoteInput{VoterID: uuid.New(), Option: "NOTA"})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	count, _ := memVotes{store}.Count(ctx)
	assert.Zero(t, count)
	assert.Zero(t, store.tallySum())
}

func TestVoteStorageFailureLeavesNoState(t *testing.T) {
	store, _, votes := newVoteFixture(t)
	ctx := context.Background()
	store.failCast = errors.New("connection reset")

	voterID := uuid.New()
	err := votes.Vote(ctx, ports.VoteInput{VoterID: voterID, Option: "BJP"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAlreadyVoted)

	voted, err := votes.HasVoted(ctx, voterID)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Zero(t, store.tallySum())
}

func TestConcurrentVotesSameVoter(t *testing.T) {
	store, _, votes := newVoteFixture(t)
	ctx := context.Background()
	voterID := uuid.New()

	const attempts = 20
	var (
		wg      sync.WaitGroup
		success atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := votes.Vote(ctx, ports.VoteInput{VoterID: voterID, Option: testOptions[i%len(testOptions)]})
			if err == nil {
				success.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), success.Load())
	count, _ := memVotes{store}.Count(ctx)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, count, store.tallySum())
}

func TestTallyMatchesVoteCount(t *testing.T) {
	store, _, votes := newVoteFixture(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		require.NoError(t, votes.Vote(ctx, ports.VoteInput{VoterID: uuid.New(), Option: testOptions[i%3]}))
		count, _ := memVotes{store}.Count(ctx)
		assert.Equal(t, count, store.tallySum())
	}
}

func TestOptionsIsACopy(t *testing.T) {
	_, _, votes := newVoteFixture(t)
	opts := votes.Options()
	opts[0] = "CHANGED"
	assert.Equal(t, "AIADMK", votes.Options()[0])
}
