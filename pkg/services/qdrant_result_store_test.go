package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// UUIDでないIDはQdrantへ問い合わせる前に未検出として扱う（クライアント未接続でも動く）
func TestQdrantResultStoreRejectsNonUUIDIDs(t *testing.T) {
	store := &QdrantResultStore{logger: zap.NewNop()}

	for _, id := range []string{"abc", "", "does-not-exist", "123"} {
		_, err := store.Get(context.Background(), id)
		assert.ErrorIs(t, err, ErrSubmissionNotFound, id)

		_, err = store.Similar(context.Background(), id, 5)
		assert.ErrorIs(t, err, ErrSubmissionNotFound, id)
	}
}

func TestPointIDUsesUUID(t *testing.T) {
	id := "00000000-0000-0000-0000-000000000001"
	assert.Equal(t, id, pointID(id).GetUuid())
}
