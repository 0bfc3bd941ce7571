package downloader

import (
	"encoding/json"
	"testing"

	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

// Consumers (launcher UIs) rely on the wire field names of events, so
// they are pinned here.
func TestEventFieldNames(t *testing.T) {
	progress := ProgressEvent{
		Total:      Counts{Amount: 3, Size: 600},
		Downloaded: Counts{Amount: 1, Size: 100},
		Speed:      30,
		ETA:        16,
		Type:       manifest.KindFile,
	}
	got, err := json.Marshal(progress)
	if err != nil {
		t.Fatalf("marshal progress: %v", err)
	}
	want := `{"total":{"amount":3,"size":600},"downloaded":{"amount":1,"size":100},"speed":30,"eta":16,"type":"FILE"}`
	if string(got) != want {
		t.Errorf("progress event JSON:\n got %s\nwant %s", got, want)
	}

	fileError := FileErrorEvent{Filename: "client.jar", Type: manifest.KindFile, Message: "boom"}
	got, err = json.Marshal(fileError)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	want = `{"filename":"client.jar","type":"FILE","message":"boom"}`
	if string(got) != want {
		t.Errorf("error event JSON:\n got %s\nwant %s", got, want)
	}

	end := EndEvent{Downloaded: Counts{Amount: 3, Size: 600}}
	got, err = json.Marshal(end)
	if err != nil {
		t.Fatalf("marshal end: %v", err)
	}
	want = `{"downloaded":{"amount":3,"size":600}}`
	if string(got) != want {
		t.Errorf("end event JSON:\n got %s\nwant %s", got, want)
	}
}
