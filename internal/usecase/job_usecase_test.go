package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/validate"
)

func TestJobs_List_InvalidPaging(t *testing.T) {
	uc := NewJobs(newFakeJobRepo(), nil, "SwadeshIntern", nil)

	_, err := uc.List(context.Background(), job.BoardCareers, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.List(context.Background(), job.BoardCareers, 101, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.List(context.Background(), job.BoardCareers, 10, -5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestJobs_List_CachesPage(t *testing.T) {
	repo := newFakeJobRepo(
		job.Job{ID: uuid.New(), Board: job.BoardCareers, Title: "Backend Intern"},
		job.Job{ID: uuid.New(), Board: job.BoardOpportunities, Title: "Data Analyst"},
	)
	c := newMemCache()
	uc := NewJobs(repo, c, "SwadeshIntern", nil)

	items, err := uc.List(context.Background(), job.BoardCareers, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Backend Intern", items[0].Title)
	assert.True(t, c.has(cache.JobListKey("careers", 20, 0)))

	again, err := uc.List(context.Background(), job.BoardCareers, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, again[0].ID)
	assert.Equal(t, 1, repo.listCalls)
}

func TestJobs_List_ReleasesFillLock(t *testing.T) {
	repo := newFakeJobRepo(job.Job{ID: uuid.New(), Board: job.BoardCareers, Title: "Backend Intern"})
	c := newMemCache()
	uc := NewJobs(repo, c, "SwadeshIntern", nil)

	_, err := uc.List(context.Background(), job.BoardCareers, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.lockCalls)
	assert.False(t, c.has(cache.FillLockKey(cache.JobListKey("careers", 20, 0))))
}

func TestJobs_List_WaitsForConcurrentFill(t *testing.T) {
	repo := newFakeJobRepo(job.Job{ID: uuid.New(), Board: job.BoardCareers, Title: "Backend Intern"})
	c := newMemCache()
	uc := NewJobs(repo, c, "SwadeshIntern", nil)
	ctx := context.Background()
	key := cache.JobListKey("careers", 20, 0)

	held, err := c.SetIfNotExists(ctx, cache.FillLockKey(key), "1", time.Second)
	require.NoError(t, err)
	require.True(t, held)

	filled := []job.Job{{ID: uuid.New(), Board: job.BoardCareers, Title: "Filled Elsewhere"}}
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = c.SetJSON(ctx, key, filled, time.Minute)
	}()

	items, err := uc.List(ctx, job.BoardCareers, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Filled Elsewhere", items[0].Title)
	assert.Equal(t, 0, repo.listCalls)
}

func TestJobs_List_LoadsWhenFillLockNeverClears(t *testing.T) {
	repo := newFakeJobRepo(job.Job{ID: uuid.New(), Board: job.BoardCareers, Title: "Backend Intern"})
	c := newMemCache()
	uc := NewJobs(repo, c, "SwadeshIntern", nil)
	ctx := context.Background()
	lock := cache.FillLockKey(cache.JobListKey("careers", 20, 0))

	_, err := c.SetIfNotExists(ctx, lock, "1", time.Second)
	require.NoError(t, err)

	items, err := uc.List(ctx, job.BoardCareers, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.True(t, c.has(lock), "a lock held by another caller is left alone")
}

func TestJobs_Get_CachesItem(t *testing.T) {
	id := uuid.New()
	uc := NewJobs(newFakeJobRepo(job.Job{ID: id, Board: job.BoardCareers, Title: "Backend Intern"}), newMemCache(), "SwadeshIntern", nil)
	c := uc.cache.(*memCache)

	got, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Backend Intern", got.Title)
	assert.True(t, c.has(cache.JobKey(id.String())))
	assert.False(t, c.has(cache.FillLockKey(cache.JobKey(id.String()))))
}

func TestJobs_Get_NotFound(t *testing.T) {
	uc := NewJobs(newFakeJobRepo(), newMemCache(), "SwadeshIntern", nil)
	_, err := uc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, job.ErrNotFound)
}

func TestJobs_Post_CareersUsesBrandAndDefaults(t *testing.T) {
	repo := newFakeJobRepo()
	c := newMemCache()
	uc := NewJobs(repo, c, "SwadeshIntern", nil)

	j, err := uc.Post(context.Background(), "ops@swadeshintern.me", PostJobInput{
		Board:        job.BoardCareers,
		Title:        "Frontend Intern",
		CompanyName:  "Someone Else",
		Skills:       "React, TypeScript, ,CSS",
		ApplyMethod:  "external",
		ExternalLink: "example.com/apply",
	})
	require.NoError(t, err)
	assert.Equal(t, "SwadeshIntern", j.CompanyName)
	assert.Equal(t, "Remote", j.Location)
	assert.Equal(t, "Full Time", j.Type)
	assert.Equal(t, []string{"React", "TypeScript", "CSS"}, j.Skills)
	assert.Equal(t, job.ApplyPlatform, j.ApplyMethod)
	assert.Empty(t, j.ExternalLink)
	assert.Equal(t, "ops@swadeshintern.me", j.PostedBy)
	assert.Equal(t, []string{"careers/"}, c.invalidated)
	assert.Len(t, repo.jobs, 1)
}

func TestJobs_Post_ExternalLinkGetsScheme(t *testing.T) {
	uc := NewJobs(newFakeJobRepo(), nil, "SwadeshIntern", nil)

	j, err := uc.Post(context.Background(), "ops", PostJobInput{
		Board:        job.BoardOpportunities,
		Title:        "Data Analyst",
		CompanyName:  "Acme Analytics",
		Location:     "Bengaluru",
		ApplyMethod:  "EXTERNAL",
		ExternalLink: "acme.example/jobs/1",
	})
	require.NoError(t, err)
	assert.Equal(t, job.ApplyExternal, j.ApplyMethod)
	assert.Equal(t, "https://acme.example/jobs/1", j.ExternalLink)
}

func TestJobs_Post_Validation(t *testing.T) {
	uc := NewJobs(newFakeJobRepo(), nil, "SwadeshIntern", nil)

	tests := []struct {
		name string
		in   PostJobInput
		msg  string
	}{
		{"bad title", PostJobInput{Board: job.BoardCareers, Title: "Intern <script>"}, "Job Title contains invalid characters."},
		{"bad company", PostJobInput{Board: job.BoardOpportunities, Title: "Analyst", CompanyName: "Acme$"}, "Company Name contains invalid characters."},
		{"missing link", PostJobInput{Board: job.BoardOpportunities, Title: "Analyst", CompanyName: "Acme", ApplyMethod: "external"}, "External application link is required."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Post(context.Background(), "ops", tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, validate.ErrInvalid))
			assert.Equal(t, tc.msg, validate.Message(err))
		})
	}

	_, err := uc.Post(context.Background(), "ops", PostJobInput{Board: "elsewhere", Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestJobs_Remove(t *testing.T) {
	id := uuid.New()
	repo := newFakeJobRepo(job.Job{ID: id, Board: job.BoardOpportunities, Title: "Analyst"})
	c := newMemCache()
	uc := NewJobs(repo, c, "SwadeshIntern", nil)

	require.NoError(t, uc.Remove(context.Background(), id))
	assert.Empty(t, repo.jobs)
	assert.Equal(t, []string{"opportunities/" + id.String()}, c.invalidated)

	assert.ErrorIs(t, uc.Remove(context.Background(), id), job.ErrNotFound)
}
