// Package media classifies files into coarse semantic categories used to
// pick icons and preview strategies.
package media

import "strings"

// Category is a closed set of file kinds.
type Category string

const (
	CategoryImage        Category = "image"
	CategoryVideo        Category = "video"
	CategoryAudio        Category = "audio"
	CategoryPDF          Category = "pdf"
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryText         Category = "text"
	CategoryArchive      Category = "archive"
	CategoryOther        Category = "other"
)

var extCategories = map[string]Category{
	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"gif": CategoryImage, "webp": CategoryImage, "svg": CategoryImage,
	"bmp": CategoryImage, "ico": CategoryImage, "tiff": CategoryImage,

	"mp4": CategoryVideo, "avi": CategoryVideo, "mov": CategoryVideo,
	"wmv": CategoryVideo, "flv": CategoryVideo, "webm": CategoryVideo,
	"mkv": CategoryVideo, "m4v": CategoryVideo, "3gp": CategoryVideo,

	"mp3": CategoryAudio, "wav": CategoryAudio, "flac": CategoryAudio,
	"aac": CategoryAudio, "ogg": CategoryAudio, "wma": CategoryAudio,
	"m4a": CategoryAudio,

	"pdf": CategoryPDF,

	"doc": CategoryDocument, "docx": CategoryDocument,

	"xls": CategorySpreadsheet, "xlsx": CategorySpreadsheet,

	"ppt": CategoryPresentation, "pptx": CategoryPresentation,

	"txt": CategoryText, "md": CategoryText, "json": CategoryText,
	"xml": CategoryText, "csv": CategoryText, "log": CategoryText,

	"zip": CategoryArchive, "rar": CategoryArchive, "7z": CategoryArchive,
	"tar": CategoryArchive, "gz": CategoryArchive, "bz2": CategoryArchive,
}

// Ext returns the lowercased extension of fileName without the dot, or ""
// when the name has no dot.
func Ext(fileName string) string {
	i := strings.LastIndex(fileName, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(fileName[i+1:])
}

// Classify maps a file name and optional MIME type to a Category. A
// recognized MIME type wins over a misleading extension; the extension is
// the fallback. Unrecognized inputs yield CategoryOther, never an error.
func Classify(fileName, mimeType string) Category {
	if mt := strings.ToLower(strings.TrimSpace(mimeType)); mt != "" {
		switch {
		case strings.HasPrefix(mt, "image/"):
			return CategoryImage
		case strings.HasPrefix(mt, "video/"):
			return CategoryVideo
		case strings.HasPrefix(mt, "audio/"):
			return CategoryAudio
		case mt == "application/pdf":
			return CategoryPDF
		case strings.Contains(mt, "wordprocessingml"):
			return CategoryDocument
		case strings.Contains(mt, "spreadsheetml"):
			return CategorySpreadsheet
		case strings.Contains(mt, "presentationml"):
			return CategoryPresentation
		case strings.HasPrefix(mt, "text/"):
			return CategoryText
		}
	}

	if cat, ok := extCategories[Ext(fileName)]; ok {
		return cat
	}
	return CategoryOther
}

// InlinePreviewable reports whether the category can be rendered inline
// rather than offered as a download.
func InlinePreviewable(cat Category) bool {
	switch cat {
	case CategoryImage, CategoryVideo, CategoryAudio, CategoryPDF, CategoryText:
		return true
	}
	return false
}

// MediaOnly reports whether the file is an image or a video. The photos
// upload filter uses it to reject non-media files before any upload starts.
func MediaOnly(fileName, mimeType string) bool {
	cat := Classify(fileName, mimeType)
	return cat == CategoryImage || cat == CategoryVideo
}
