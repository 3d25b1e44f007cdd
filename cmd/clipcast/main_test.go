package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipcast/internal/model"
	"clipcast/internal/predict"
	"clipcast/internal/store/artifactdb"
)

func seedPosts() []model.Post {
	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var posts []model.Post
	for i := 0; i < 10; i++ {
		posts = append(posts, model.Post{
			Text: fmt.Sprintf("banger #viral #fyp%d", i), Author: "creator_a", Music: "hit track",
			Duration: 30, CreatedAt: when, TimeValid: true,
			DiggCount: 9000, ShareCount: 500, CommentCount: 400, PlayCount: 20000,
		})
		posts = append(posts, model.Post{
			Text: fmt.Sprintf("quiet #daily%d", i), Author: "creator_b", Music: "calm track",
			Duration: 300, CreatedAt: when.Add(9 * time.Hour), TimeValid: true,
			DiggCount: 10, ShareCount: 1, CommentCount: 2, PlayCount: 100,
		})
	}
	return posts
}

func TestRestoreLatestEmptyStore(t *testing.T) {
	db, err := artifactdb.Open(filepath.Join(t.TempDir(), "clipcast.db"))
	require.NoError(t, err)
	defer db.Close()

	svc := predict.NewService()
	require.NoError(t, restoreLatest(svc, db))
	assert.False(t, svc.Fitted())
}

func TestRestoreLatestSeedsService(t *testing.T) {
	db, err := artifactdb.Open(filepath.Join(t.TempDir(), "clipcast.db"))
	require.NoError(t, err)
	defer db.Close()

	res, err := predict.Train(seedPosts(), predict.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, db.SaveSet(context.Background(), res.Artifacts))

	svc := predict.NewService()
	require.NoError(t, restoreLatest(svc, db))
	assert.True(t, svc.Fitted())
}

func TestRestoreLatestSurfacesStoreFailure(t *testing.T) {
	db, err := artifactdb.Open(filepath.Join(t.TempDir(), "clipcast.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	svc := predict.NewService()
	err = restoreLatest(svc, db)
	require.Error(t, err)
	assert.NotErrorIs(t, err, artifactdb.ErrNoArtifacts)
	assert.False(t, svc.Fitted())
}

func TestWriteBulkCSV(t *testing.T) {
	when := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	preds := []model.Prediction{
		{
			Post: model.Post{
				Text: "hit #viral", Author: "creator_a", Music: "hit track",
				Duration: 30, CreatedAt: when, TimeValid: true,
			},
			Popular: true, Label: model.LabelPopular,
		},
		{
			Post:    model.Post{Text: "no timestamp", Author: "creator_b", Music: "calm track", Duration: 12.5},
			Popular: false, Label: model.LabelNotPopular,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeBulkCSV(&buf, preds))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"text", "authorMeta.name", "musicMeta.musicName", "videoMeta.duration", "createTimeISO", "popularity"}, rows[0])
	assert.Equal(t, []string{"hit #viral", "creator_a", "hit track", "30", "2025-06-01T12:30:00Z", model.LabelPopular}, rows[1])
	assert.Equal(t, []string{"no timestamp", "creator_b", "calm track", "12.5", "", model.LabelNotPopular}, rows[2])
}
