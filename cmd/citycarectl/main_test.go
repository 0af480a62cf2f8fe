package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "classify", "밤에", "배가", "아파요")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "URGENT", result["urgency"])
	assert.Equal(t, true, result["isComplex"])
	assert.Equal(t, "내과 (야간/진료가능)", result["title"])
}

func TestClassifyCommand_BlankText(t *testing.T) {
	_, err := run(t, "classify", "   ")
	assert.Error(t, err)
}

func TestHoursCommand(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		status string
		label  string
	}{
		{
			name:   "overnight after midnight",
			args:   []string{"hours", "22:00~02:00", "--at", "01:00", "--weekday", "1"},
			status: "OPEN",
			label:  "22:00~02:00",
		},
		{
			name:   "break time",
			args:   []string{"hours", "11:00~21:00 (브레이크타임 15:00~17:00)", "--at", "16:00", "--weekday", "3"},
			status: "BREAK",
			label:  "11:00~21:00",
		},
		{
			name:   "closed today",
			args:   []string{"hours", "09:00~18:00 월요일 휴무", "--at", "10:00", "--weekday", "1"},
			status: "CLOSED",
			label:  "금일 휴무",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append(tt.args, "--timezone", "Asia/Seoul")...)
			require.NoError(t, err)

			var result hoursOutput
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, tt.status, string(result.Status.Status))
			assert.Equal(t, tt.label, result.Status.TodayLabel)
		})
	}
}

func TestHoursCommand_InvalidAt(t *testing.T) {
	_, err := run(t, "hours", "09:00~18:00", "--at", "9am")
	assert.Error(t, err)
}

func TestEvaluationTime(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	// Wednesday
	now := time.Date(2025, 1, 8, 13, 45, 0, 0, kst)

	got, err := evaluationTime(now, "", -1)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = evaluationTime(now, "07:05", 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 13, 7, 5, 0, 0, kst), got)
	assert.Equal(t, time.Monday, got.Weekday())

	got, err = evaluationTime(now, "", 3)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	_, err = evaluationTime(now, "", 7)
	assert.Error(t, err)
}

func TestRecommendCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hospital":
			_, _ = w.Write([]byte(`[
				{"id":1,"name":"대전종합병원","address":"대전 중구 1","type":"종합병원"},
				{"id":2,"name":"하얀치과","address":"대전 서구 2","treatCategory":"치과"}
			]`))
		case "/mypage/favorites":
			assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"id":2}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	t.Setenv("CITYCARE_DIRECTORY_BASE_URL", server.URL)
	t.Setenv("CITYCARE_GEOLOCATION_PROVIDER", "mock")

	out, err := run(t, "recommend", "사랑니", "--token", "Bearer t")
	require.NoError(t, err)

	var rec struct {
		Classification struct {
			Title string `json:"title"`
		} `json:"classification"`
		Facilities []struct {
			ID         int64 `json:"id"`
			IsFavorite bool  `json:"isFavorite"`
		} `json:"facilities"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "치과", rec.Classification.Title)
	require.Len(t, rec.Facilities, 1)
	assert.Equal(t, int64(2), rec.Facilities[0].ID)
	assert.True(t, rec.Facilities[0].IsFavorite)
}

func TestRecommendCommand_HasNoDomainFlag(t *testing.T) {
	_, err := run(t, "recommend", "배가 아파요", "--domain", "restaurant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag: --domain")
}

func TestLoadConfig_OverlaysPrefixedEnvironment(t *testing.T) {
	t.Setenv("CITYCARE_RECOMMEND_TOP_N", "2")
	t.Setenv("CITYCARE_GEOLOCATION_MAX_CONCURRENCY", "3")
	t.Setenv("CITYCARE_DATABASE_NAME", "geo")

	v := viper.New()
	require.NoError(t, initConfig(v, ""))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Recommend.TopN)
	assert.Equal(t, 3, cfg.Geolocation.MaxConcurrency)
	assert.Equal(t, "geo", cfg.Database.Database)
	assert.Equal(t, "Asia/Seoul", cfg.App.Timezone)
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citycare.yaml")
	require.NoError(t, os.WriteFile(path, []byte("directory:\n  base_url: http://directory.internal/api\nrecommend:\n  top_n: 4\n"), 0o600))

	v := viper.New()
	require.NoError(t, initConfig(v, path))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://directory.internal/api", cfg.Directory.BaseURL)
	assert.Equal(t, 4, cfg.Recommend.TopN)
}

func TestCacheWarmCommand_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hospital", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"대전종합병원","address":"대전 중구 1","type":"종합병원"},
			{"id":2,"name":"하얀치과","address":"대전 서구 2","treatCategory":"치과"}
		]`))
	}))
	defer server.Close()

	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	t.Setenv("CITYCARE_DIRECTORY_BASE_URL", server.URL)
	t.Setenv("CITYCARE_GEOLOCATION_PROVIDER", "mock")
	t.Setenv("CITYCARE_REDIS_HOST", host)
	t.Setenv("CITYCARE_REDIS_PORT", port)

	out, err := run(t, "cache", "warm", "hospital", "--backend", "redis")
	require.NoError(t, err)

	var results []struct {
		Domain  string `json:"domain"`
		Total   int    `json:"total"`
		Located int    `json:"located"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "hospital", results[0].Domain)
	assert.Equal(t, 2, results[0].Total)
	assert.Equal(t, 2, results[0].Located)
	assert.Len(t, mr.Keys(), 2)
}

func TestCacheWarmCommand_RequiresBackend(t *testing.T) {
	_, err := run(t, "cache", "warm")
	assert.Error(t, err)
}

func TestCacheWarmCommand_UnknownDomain(t *testing.T) {
	_, err := run(t, "cache", "warm", "pharmacy", "--backend", "redis")
	assert.Error(t, err)
}
