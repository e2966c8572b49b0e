//go:build integration

package repository

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"messenger_service/pkg/database"
	testtool "messenger_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMinIOBlobStore(t *testing.T) {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, host, port, err := testtool.SetupContainer(ctx, req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	client, err := database.NewMinIOConnection(ctx, database.MinIOConnection{
		Endpoint:      net.JoinHostPort(host, port),
		User:          "minioadmin",
		Password:      "minioadmin",
		BucketName:    "attachments",
		RetryCount:    3,
		RetryInterval: time.Second,
	})
	require.NoError(t, err)

	body := "quarterly numbers"
	ref, err := NewMinIOBlobStore(client).Put(ctx, Attachment{
		Name:        "report.txt",
		Size:        int64(len(body)),
		ContentType: "text/plain",
		Body:        strings.NewReader(body),
	})
	require.NoError(t, err)
	assert.Contains(t, ref, "/attachments/attachments/")
	assert.Contains(t, ref, "report.txt")
}
