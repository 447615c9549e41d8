package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleConfig = `
client:
  base-url: http://notes.example:8080
  timeout: 5s
  rate-limit: 0
log:
  level: debug
session:
  driver: sqlite
  path: data/session.sqlite3
app:
  lang: zh_cn
  write-queue-timeout: 2m
  worker-pool-max-workers: 0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, realpath, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, cfg.File, realpath)

	assert.Equal(t, "http://notes.example:8080", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.GetRequestTimeout())
	assert.Equal(t, "zh_cn", cfg.App.Lang)

	// 未配置的字段使用默认值
	assert.Equal(t, int64(20), cfg.Client.RateBurst)
	assert.Equal(t, "fnc_", cfg.Session.TablePrefix)
	assert.True(t, cfg.Tracer.Enabled)
	assert.Equal(t, "X-Trace-ID", cfg.Tracer.Header)
	assert.Equal(t, 60*time.Second, cfg.GetContextTimeout())

	// 相对路径以配置文件目录为基准
	db := cfg.GetDatabaseConfig()
	assert.Equal(t, filepath.Join(filepath.Dir(realpath), "data", "session.sqlite3"), db.Path)
	assert.Equal(t, "sqlite", db.Driver)

	wq := cfg.GetWriteQueueConfig()
	assert.Equal(t, 2*time.Minute, wq.WriteTimeout)
	assert.Equal(t, 100, wq.QueueCapacity)

	wp := cfg.GetWorkerPoolConfig()
	assert.Equal(t, 4, wp.MaxWorkers)

	client := cfg.GetClientConfig()
	assert.Equal(t, Name, client.AppName)
	assert.Equal(t, "zh_cn", client.Lang)
	_, err = client.ParseBaseURL()
	assert.NoError(t, err)
}

func TestLoadConfigErrors(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = LoadConfig(writeConfig(t, "client: [not, a, map"))
	assert.Error(t, err)
}

func TestConfigSave(t *testing.T) {
	// 1. 加载配置
	tmpFile := writeConfig(t, sampleConfig)
	cfg, _, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	// 2. 修改配置并保存
	cfg.Client.BaseURL = "https://notes.example"
	require.NoError(t, cfg.Save(), "file: %s", cfg.File)

	// 3. 验证文件内容
	updatedData, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var updated AppConfig
	require.NoError(t, yaml.Unmarshal(updatedData, &updated))
	assert.Equal(t, "https://notes.example", updated.Client.BaseURL)
	assert.Equal(t, "zh_cn", updated.App.Lang)
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	realpath, err := WriteDefaultConfig(path, sampleConfig, false)
	require.NoError(t, err)

	cfg, _, err := LoadConfig(realpath)
	require.NoError(t, err)
	assert.Equal(t, "http://notes.example:8080", cfg.Client.BaseURL)

	// 已存在时不覆盖，除非 force
	_, err = WriteDefaultConfig(path, "client: {}", false)
	assert.Error(t, err)
	_, err = WriteDefaultConfig(path, "client: {}", true)
	require.NoError(t, err)

	cfg, _, err = LoadConfig(realpath)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.Client.BaseURL)

	_, err = WriteDefaultConfig(dir, sampleConfig, true)
	assert.Error(t, err)
}

func TestLoadConfigExplicitZeroValues(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, `
log:
  file: ""
  production: false
tracer:
  enabled: false
`))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.GetLoggerConfig().File)
	assert.False(t, cfg.Log.Production)
	assert.False(t, cfg.Tracer.Enabled)
	assert.Equal(t, "X-Trace-ID", cfg.Tracer.Header)
}
