package tools_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/orin-ai/orin"
	"github.com/orin-ai/orin/tools"
)

func TestCalculator(t *testing.T) {
	calc := tools.NewCalculator()
	ctx := context.Background()

	result := gt.R1(calc.Run(ctx, map[string]any{"expression": "2+2"})).NoError(t)
	gt.Equal(t, result, "Result: 4")

	result = gt.R1(calc.Run(ctx, map[string]any{"expression": "(10 - 4) * 3"})).NoError(t)
	gt.Equal(t, result, "Result: 18")
}

func TestCalculatorRejectsDisallowedInput(t *testing.T) {
	calc := tools.NewCalculator()
	ctx := context.Background()

	_, err := calc.Run(ctx, map[string]any{"expression": `os.Exit(1)`})
	gt.True(t, errors.Is(err, orin.ErrInvalidParams))

	_, err = calc.Run(ctx, map[string]any{})
	gt.True(t, errors.Is(err, orin.ErrInvalidParams))
}

func TestSearch(t *testing.T) {
	search := tools.NewSearch()
	result := gt.R1(search.Run(context.Background(), map[string]any{"query": "go concurrency"})).NoError(t)
	gt.True(t, strings.Contains(result, `"go concurrency"`))
	gt.True(t, strings.HasPrefix(result, "[SEARCH_PROTOCOL]"))
}

func TestSystem(t *testing.T) {
	system := tools.NewSystem()
	ctx := context.Background()

	status := gt.R1(system.Run(ctx, map[string]any{"command": "status"})).NoError(t)
	gt.Equal(t, status, "All Systems Nominal. Battery: 85%. Network: Secure.")

	info := gt.R1(system.Run(ctx, map[string]any{"command": "info"})).NoError(t)
	gt.True(t, strings.Contains(info, "Cores:"))

	other := gt.R1(system.Run(ctx, map[string]any{"command": "reboot"})).NoError(t)
	gt.Equal(t, other, "Command executed successfully.")
}

type artifactStoreMock struct {
	saved []string
	err   error
}

func (m *artifactStoreMock) SaveArtifact(ctx context.Context, content string) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, content)
	return nil
}

func TestMemory(t *testing.T) {
	store := &artifactStoreMock{}
	memory := tools.NewMemory(store)

	result := gt.R1(memory.Run(context.Background(), map[string]any{
		"content": "the launch code is hidden under the mat",
	})).NoError(t)

	gt.Equal(t, result, `[MEMORY_WRITE] Content archived: "the launch code is h..."`)
	gt.A(t, store.saved).Length(1)
	gt.Equal(t, store.saved[0], "the launch code is hidden under the mat")
}

func TestMemoryStoreFailure(t *testing.T) {
	store := &artifactStoreMock{err: errors.New("disk full")}
	memory := tools.NewMemory(store)

	_, err := memory.Run(context.Background(), map[string]any{"content": "x"})
	gt.Error(t, err)
}

func TestClock(t *testing.T) {
	fired := make(chan string, 1)
	clock := tools.NewClock(func(label string) {
		fired <- label
	})

	result := gt.R1(clock.Run(context.Background(), map[string]any{
		"action": "alarm",
		"time":   float64(10),
		"label":  "tea",
	})).NoError(t)
	gt.Equal(t, result, "Timer set for 0.01 seconds.")

	select {
	case label := <-fired:
		gt.Equal(t, label, "tea")
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestClockInvalidAction(t *testing.T) {
	clock := tools.NewClock(nil)
	_, err := clock.Run(context.Background(), map[string]any{"action": "snooze"})
	gt.True(t, errors.Is(err, orin.ErrInvalidParams))
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	files := tools.NewFiles(dir)

	result := gt.R1(files.Run(context.Background(), map[string]any{
		"action":   "create",
		"filename": "../../etc/notes.txt",
		"content":  "hello",
	})).NoError(t)
	gt.Equal(t, result, `File "notes.txt" created.`)

	data := gt.R1(os.ReadFile(filepath.Join(dir, "notes.txt"))).NoError(t)
	gt.Equal(t, string(data), "hello")
}

func TestFilesInvalidAction(t *testing.T) {
	files := tools.NewFiles(t.TempDir())
	_, err := files.Run(context.Background(), map[string]any{"action": "delete"})
	gt.True(t, errors.Is(err, orin.ErrInvalidParams))
}

func TestScript(t *testing.T) {
	script := tools.NewScript()
	result := gt.R1(script.Run(context.Background(), map[string]any{"code": `1 + 2`})).NoError(t)
	gt.Equal(t, result, "3")
}

func TestScriptRejectsForbiddenImport(t *testing.T) {
	script := tools.NewScript()
	code := "import \"os\"\n\nfunc main() { os.Exit(1) }"
	_, err := script.Run(context.Background(), map[string]any{"code": code})
	gt.True(t, errors.Is(err, orin.ErrInvalidParams))
}

func TestComm(t *testing.T) {
	comm := tools.NewComm()
	result := gt.R1(comm.Run(context.Background(), map[string]any{
		"type":      "sms",
		"recipient": "+15550001111",
		"content":   "running late",
	})).NoError(t)
	gt.Equal(t, result, "[SIMULATION] SMS queued for +15550001111. Content payload size: 12 bytes.")
}

func TestCommUnknownType(t *testing.T) {
	comm := tools.NewComm()
	_, err := comm.Run(context.Background(), map[string]any{
		"type":      "carrier-pigeon",
		"recipient": "roof",
	})
	gt.True(t, errors.Is(err, orin.ErrInvalidParams))
}

func TestMusic(t *testing.T) {
	var opened string
	music := tools.NewMusic(func(ctx context.Context, url string) error {
		opened = url
		return nil
	})

	result := gt.R1(music.Run(context.Background(), map[string]any{})).NoError(t)
	gt.Equal(t, result, `Audio routing to external player: "lofi beats"`)
	gt.True(t, strings.Contains(opened, "open.spotify.com/search/"))
}

func TestWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Query().Get("current_weather"), "true")
		fmt.Fprint(w, `{"current_weather":{"temperature":21.5,"windspeed":10,"weathercode":3}}`)
	}))
	defer srv.Close()

	weather := tools.NewWeather(
		tools.WithWeatherEndpoint(srv.URL),
		tools.WithWeatherHTTPClient(srv.Client()),
	)

	result := gt.R1(weather.Run(context.Background(), map[string]any{
		"lat": 35.68,
		"lng": 139.69,
	})).NoError(t)
	gt.Equal(t, result, "Temperature: 21.5°C, Wind: 10km/h, Code: 3")
}

func TestWeatherWithoutCoordinates(t *testing.T) {
	weather := tools.NewWeather()
	result := gt.R1(weather.Run(context.Background(), map[string]any{})).NoError(t)
	gt.Equal(t, result, "GPS Data required for atmospheric scan.")
}
