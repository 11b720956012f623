package services

import (
	"bytes"
	"testing"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestJobServiceRecordsRuns(t *testing.T) {
	env := newTestEnv(t)
	env.project(t, "Empty", 2, models.ProjectStarting, "")

	job, err := env.jobs.Run(models.JobTypeAlertScan, "worker-1")
	require.NoError(t, err)
	assert.True(t, job.IsCompleted())
	assert.Equal(t, 1, job.AffectedCount)

	_, err = env.jobs.Run(models.JobTypeEndingSweep, "worker-2")
	require.NoError(t, err)

	recent, err := env.jobs.GetRecentJobs("", 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	scans, err := env.jobs.GetRecentJobs(models.JobTypeAlertScan, 10)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "worker-1", scans[0].WorkerID)

	_, err = env.jobs.Run("bogus", "worker-1")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestExportReports(t *testing.T) {
	env := newTestEnv(t)
	alice := env.collaborator(t, "alice", "Go")
	p := env.project(t, "Apollo", 2, models.ProjectInProgress, "2024-12-31", "Go")
	_, err := env.assign(alice, p)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.export.WriteProjectsReport(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, []string{"Apollo", "Acme", "Jane", "2024-05-01", "2024-12-31", "IN_PROGRESS", "MEDIUM", "0", "1", "2", "Yes", "Go"}, rows[1])

	buf.Reset()
	require.NoError(t, env.export.WriteCollaboratorsReport(&buf))
	f2, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f2.Close()

	rows, err = f2.GetRows("Collaborators")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[1][0])
	assert.Equal(t, "ON_MISSION", rows[1][6])
}
