package committer

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApplier struct {
	calls [][]*spanner.Mutation
	err   error
}

func (f *fakeApplier) Apply(_ context.Context, ms []*spanner.Mutation, _ ...spanner.ApplyOption) (time.Time, error) {
	f.calls = append(f.calls, ms)
	return time.Time{}, f.err
}

func TestCommitPlan(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())

	plan.Add(nil)
	assert.True(t, plan.IsEmpty(), "nil mutations are ignored")

	plan.Add(spanner.InsertOrUpdate("products", []string{"product_id"}, []interface{}{int64(1)}))
	plan.AddMultiple([]*spanner.Mutation{
		spanner.InsertOrUpdate("products", []string{"product_id"}, []interface{}{int64(2)}),
		nil,
	})

	assert.False(t, plan.IsEmpty())
	assert.Equal(t, 2, plan.Count())
	assert.Len(t, plan.Mutations(), 2)
}

func TestCommitter_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("empty plan is not sent", func(t *testing.T) {
		client := &fakeApplier{}
		require.NoError(t, NewCommitter(client).Apply(ctx, NewPlan()))
		assert.Empty(t, client.calls)
	})

	t.Run("plan is sent as one apply", func(t *testing.T) {
		client := &fakeApplier{}
		plan := NewPlan()
		plan.Add(spanner.Delete("products", spanner.Key{int64(1)}))
		plan.Add(spanner.Delete("products", spanner.Key{int64(2)}))

		require.NoError(t, NewCommitter(client).Apply(ctx, plan))
		require.Len(t, client.calls, 1)
		assert.Len(t, client.calls[0], 2)
	})

	t.Run("apply errors are wrapped", func(t *testing.T) {
		cause := errors.New("aborted")
		client := &fakeApplier{err: cause}
		plan := NewPlan()
		plan.Add(spanner.Delete("products", spanner.Key{int64(1)}))

		err := NewCommitter(client).Apply(ctx, plan)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed to apply commit plan")
	})
}
