package runner

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAsyncReadsConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "umeng-push.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log_level: debug\nworker_count: 3\nshop:\n  android:\n    appkey: from-file\n"), 0o600))

	t.Setenv("UMENG_PUSH_SHOP_ANDROID_MASTER_SECRET", "from-env")

	ctx, err := NewDefaultRunner(file, nil).StartAsync()
	require.NoError(t, err)
	require.NotNil(t, ctx)

	assert.Equal(t, 3, config.GetInt("worker_count"))
	assert.Equal(t, "from-file", config.GetString("shop.android.appkey"))
	assert.Equal(t, "from-env", config.GetString("shop.android.master_secret"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestStartAsyncMissingFile(t *testing.T) {
	_, err := NewDefaultRunner(filepath.Join(t.TempDir(), "missing.yaml"), nil).StartAsync()
	assert.Error(t, err)
}
