package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

func TestUploadCmd_Use(t *testing.T) {
	assert.Equal(t, "upload [file]", uploadCmd.Use)
}

func TestUploadCmd_RegistersDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"upload", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Uploaded notes.txt")
	assert.Contains(t, buf.String(), "processing")

	docs, err := documentStore.ListDocuments(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.StatusProcessing, docs[0].Status)
}

func TestReingestCmd_RefusesProcessingDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0600))

	doc, err := ingestService.Upload(context.Background(), "default", "notes.txt", path)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"reingest", doc.ID})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()
	assert.ErrorIs(t, err, domain.ErrIngestionInProgress)
}
