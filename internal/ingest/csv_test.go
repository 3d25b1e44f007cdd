package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainingHeader = "text,authorMeta.name,musicMeta.musicName,videoMeta.duration,createTimeISO,diggCount,shareCount,commentCount,playCount\n"

func TestReadTrainingHappyPath(t *testing.T) {
	csv := trainingHeader +
		"dance video #fyp,alice,songA,30,2024-03-04T12:00:00Z,100,50,20,9000\n" +
		"cooking #food,bob,songB,120,2024-03-05T18:30:00Z,5000,3000,2000,4000\n"
	posts, dropped, err := ReadTraining(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, posts, 2)

	p := posts[0]
	assert.Equal(t, "dance video #fyp", p.Text)
	assert.Equal(t, "alice", p.Author)
	assert.Equal(t, "songA", p.Music)
	assert.Equal(t, 30.0, p.Duration)
	assert.True(t, p.TimeValid)
	assert.Equal(t, 12, p.CreatedAt.Hour())
	assert.Equal(t, 9000, p.PlayCount)
}

func TestReadTrainingDropsMalformedRows(t *testing.T) {
	csv := trainingHeader +
		"good #fyp,alice,songA,30,2024-03-04T12:00:00Z,1,2,3,4\n" +
		"bad time,bob,songB,30,not-a-date,1,2,3,4\n" +
		"bad counter,carl,songC,30,2024-03-04T12:00:00Z,-5,2,3,4\n" +
		"not a number,dina,songD,30,2024-03-04T12:00:00Z,x,2,3,4\n"
	posts, dropped, err := ReadTraining(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 3, dropped)
}

func TestReadTrainingMissingColumn(t *testing.T) {
	csv := "text,authorMeta.name\nhello,alice\n"
	_, _, err := ReadTraining(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestReadBulkKeepsEveryRow(t *testing.T) {
	csv := "text,authorMeta.name,musicMeta.musicName,videoMeta.duration,createTimeISO\n" +
		"one #a,alice,songA,30,2024-03-04T12:00:00Z\n" +
		"two #b,bob,songB,60,not-a-date\n" +
		"three,carol,songC,bad-duration,2024-03-04T13:00:00Z\n"
	posts, err := ReadBulk(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.True(t, posts[0].TimeValid)
	assert.False(t, posts[1].TimeValid, "bad timestamp is kept, flagged invalid")
	assert.Zero(t, posts[2].Duration, "bad duration coerced to zero")
	assert.True(t, posts[2].TimeValid)
}

func TestReadBulkPreservesOrder(t *testing.T) {
	csv := "text,authorMeta.name,musicMeta.musicName,videoMeta.duration,createTimeISO\n" +
		"r0,a,m,1,2024-01-01T00:00:00Z\n" +
		"r1,a,m,1,2024-01-01T00:00:00Z\n" +
		"r2,a,m,1,2024-01-01T00:00:00Z\n"
	posts, err := ReadBulk(strings.NewReader(csv))
	require.NoError(t, err)
	for i, p := range posts {
		assert.Equal(t, []string{"r0", "r1", "r2"}[i], p.Text)
	}
}

func TestReadTrainingEmptyInput(t *testing.T) {
	_, _, err := ReadTraining(strings.NewReader(""))
	assert.Error(t, err)
}
