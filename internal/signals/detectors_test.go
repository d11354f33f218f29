package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectErrorLeak(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    bool
	}{
		{"traceback", map[string]interface{}{"error": map[string]interface{}{"message": "Traceback (most recent call last):"}}, true},
		{"exception", map[string]interface{}{"result": map[string]interface{}{"output": "ValueError: Exception raised"}}, true},
		{"file-quote", map[string]interface{}{"result": map[string]interface{}{"output": `File "app.py", line 10`}}, true},
		{"clean", map[string]interface{}{"result": map[string]interface{}{"output": "ok"}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := DetectErrorLeak(c.payload, 7)
			if c.want {
				assert.Len(t, ev, 1)
				assert.Equal(t, "ErrorLeakSignal", ev[0].Signal)
				assert.Equal(t, 7, ev[0].TranscriptID)
			} else {
				assert.Empty(t, ev)
			}
		})
	}
}

func TestDetectCanary(t *testing.T) {
	hit := map[string]interface{}{"result": map[string]interface{}{"output": "leaked CANARY_SECRET value"}}
	miss := map[string]interface{}{"result": map[string]interface{}{"output": "nothing interesting"}}

	assert.Len(t, DetectCanary(hit, 1), 1)
	assert.Empty(t, DetectCanary(miss, 1))
}

func TestDetectSSRF(t *testing.T) {
	hit := map[string]interface{}{"result": map[string]interface{}{"output": "token=FAKE_METADATA_TOKEN"}}
	miss := map[string]interface{}{"result": map[string]interface{}{"output": "nothing interesting"}}

	assert.Len(t, DetectSSRF(hit, 2), 1)
	assert.Empty(t, DetectSSRF(miss, 2))
}

func TestDetectTiming(t *testing.T) {
	assert.Len(t, DetectTiming(900, 800, 3), 1)
	assert.Len(t, DetectTiming(800, 800, 3), 1) // threshold is inclusive
	assert.Empty(t, DetectTiming(700, 800, 3))
}

func TestDetectorsArePure(t *testing.T) {
	payload := map[string]interface{}{"result": map[string]interface{}{"output": "CANARY_SECRET"}}
	first := DetectCanary(payload, 1)
	second := DetectCanary(payload, 1)
	assert.Equal(t, first, second)
}
