package media

import "testing"

func TestClassify_MIMEWinsOverExtension(t *testing.T) {
	if got := Classify("video.jpg", "video/mp4"); got != CategoryVideo {
		t.Errorf("expected video, got %s", got)
	}
	if got := Classify("photo.unknownext", "image/png"); got != CategoryImage {
		t.Errorf("expected image, got %s", got)
	}
}

func TestClassify_ExtensionFallback(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"archive.zip", CategoryArchive},
		{"backup.tar", CategoryArchive},
		{"song.FLAC", CategoryAudio},
		{"clip.MOV", CategoryVideo},
		{"scan.pdf", CategoryPDF},
		{"report.docx", CategoryDocument},
		{"budget.xlsx", CategorySpreadsheet},
		{"deck.pptx", CategoryPresentation},
		{"notes.md", CategoryText},
		{"data.json", CategoryText},
		{"picture.JPEG", CategoryImage},
		{"noext", CategoryOther},
		{"weird.xyz", CategoryOther},
	}
	for _, c := range cases {
		if got := Classify(c.name, ""); got != c.want {
			t.Errorf("Classify(%q): expected %s, got %s", c.name, c.want, got)
		}
	}
}

func TestClassify_MIMEVariants(t *testing.T) {
	cases := []struct {
		name string
		mime string
		want Category
	}{
		{"f", "application/pdf", CategoryPDF},
		{"f", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", CategoryDocument},
		{"f", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", CategorySpreadsheet},
		{"f", "application/vnd.openxmlformats-officedocument.presentationml.presentation", CategoryPresentation},
		{"f", "text/plain", CategoryText},
		{"f", "audio/mpeg", CategoryAudio},
		{"f.zip", "application/octet-stream", CategoryArchive}, // unrecognized MIME falls through
	}
	for _, c := range cases {
		if got := Classify(c.name, c.mime); got != c.want {
			t.Errorf("Classify(%q, %q): expected %s, got %s", c.name, c.mime, c.want, got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify("holiday.png", "image/png")
	for i := 0; i < 100; i++ {
		if got := Classify("holiday.png", "image/png"); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", first, got)
		}
	}
}

func TestExt(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a.TXT", "txt"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{".bashrc", "bashrc"},
	}
	for _, c := range cases {
		if got := Ext(c.in); got != c.want {
			t.Errorf("Ext(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestInlinePreviewable(t *testing.T) {
	previewable := []Category{CategoryImage, CategoryVideo, CategoryAudio, CategoryPDF, CategoryText}
	for _, cat := range previewable {
		if !InlinePreviewable(cat) {
			t.Errorf("%s should be previewable", cat)
		}
	}
	for _, cat := range []Category{CategoryDocument, CategorySpreadsheet, CategoryPresentation, CategoryArchive, CategoryOther} {
		if InlinePreviewable(cat) {
			t.Errorf("%s should not be previewable", cat)
		}
	}
}

func TestMediaOnly(t *testing.T) {
	if !MediaOnly("pic.png", "") {
		t.Error("png should count as media")
	}
	if !MediaOnly("clip.bin", "video/mp4") {
		t.Error("video MIME should count as media")
	}
	if MediaOnly("doc.pdf", "application/pdf") {
		t.Error("pdf should not count as media")
	}
	if MediaOnly("song.mp3", "") {
		t.Error("audio should not count as media")
	}
}
