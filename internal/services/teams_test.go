package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTeamIDsFetchesAndCaches(t *testing.T) {
	api := &stubAPI{teams: directoryTeams}
	cache := NewMemoryCache()
	svc := NewTeamDirectoryService(api, cache, time.Hour, testLogger())
	ctx := context.Background()

	ids := svc.TeamIDs(ctx)
	assert.Equal(t, 147, ids["New York Yankees"])
	assert.Equal(t, 111, ids["Boston Red Sox"])

	svc.TeamIDs(ctx)
	assert.Equal(t, 1, api.teamsCalls, "second lookup should hit the cache")
}

func TestTeamIDsUpstreamFailureYieldsEmptyMap(t *testing.T) {
	api := &stubAPI{teamsErr: errors.New("upstream down")}
	svc := NewTeamDirectoryService(api, NewMemoryCache(), time.Hour, testLogger())

	ids := svc.TeamIDs(context.Background())
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestTeamIDsRefetchesAfterEmptyResult(t *testing.T) {
	api := &stubAPI{teamsErr: errors.New("upstream down")}
	cache := NewMemoryCache()
	svc := NewTeamDirectoryService(api, cache, time.Hour, testLogger())
	ctx := context.Background()

	assert.Empty(t, svc.TeamIDs(ctx))

	// Upstream recovers; the empty result was never cached.
	api.teamsErr = nil
	api.teams = directoryTeams
	ids := svc.TeamIDs(ctx)
	assert.Equal(t, 147, ids["New York Yankees"])
}
