//go:build unix

package stderr

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_ForwardsLinesToLogger(t *testing.T) {
	log, hook := test.NewNullLogger()

	c, err := Start(log)
	require.NoError(t, err)

	_, err = os.Stderr.WriteString("ALSA lib pcm.c:8675: underrun occurred\n\n")
	require.NoError(t, err)
	require.NoError(t, c.Stop())

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, "ALSA lib pcm.c:8675: underrun occurred", entries[0].Message)
	assert.Equal(t, "stderr", entries[0].Data["component"])
}

func TestCapture_StopIsIdempotent(t *testing.T) {
	log, _ := test.NewNullLogger()

	c, err := Start(log)
	require.NoError(t, err)
	require.NoError(t, c.Stop())
	assert.NoError(t, c.Stop())
}
