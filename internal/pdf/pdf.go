// Package pdf pulls embedded raster images out of PDF documents so that
// codes printed on scanned pages can be read like any other image.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/qrnode/internal/imageio"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExtractImages extracts all images from a PDF file, grouped by page number.
// pageRange uses the "1-3,5" syntax; empty means every page.
func ExtractImages(filename string, pageRange string) (map[int][]image.Image, error) {
	pageNumbers, err := parsePageRange(pageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "qrnode-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var pageStrings []string
	if len(pageNumbers) > 0 {
		pageStrings = make([]string, len(pageNumbers))
		for i, pageNum := range pageNumbers {
			pageStrings[i] = strconv.Itoa(pageNum)
		}
	}

	if err := api.ExtractImagesFile(filename, tempDir, pageStrings, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}

	result, err := collectExtractedImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to process extracted images: %w", err)
	}
	return result, nil
}

// SortedPages returns the page numbers of an extraction in ascending order.
func SortedPages(pages map[int][]image.Image) []int {
	out := make([]int, 0, len(pages))
	for p := range pages {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// DecodeFunc reads the text of the first code in an image, "" if none.
type DecodeFunc func(ctx context.Context, img image.Image) (string, error)

// Hit is the first code found in a document.
type Hit struct {
	Page  int
	Image image.Image
	Text  string
}

// FirstCode scans pages in ascending order and returns the first image with a
// non-empty text. A zero Hit means nothing was found.
func FirstCode(ctx context.Context, pages map[int][]image.Image, decode DecodeFunc) (Hit, error) {
	for _, p := range SortedPages(pages) {
		for i, img := range pages[p] {
			text, err := decode(ctx, img)
			if err != nil {
				return Hit{}, fmt.Errorf("page %d image %d: %w", p, i+1, err)
			}
			if text != "" {
				slog.Debug("Code found in PDF", "page", p, "image", i+1)
				return Hit{Page: p, Image: img, Text: text}, nil
			}
		}
	}
	return Hit{}, nil
}

// collectExtractedImages walks dir and groups images by page number.
// Within a page, images are ordered by the numeric image id in their name.
func collectExtractedImages(dir string) (map[int][]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type extracted struct {
		name  string
		page  int
		index int
	}
	var files []extracted
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		pageNum, err := parsePageFromFilename(e.Name())
		if err != nil {
			continue
		}
		files = append(files, extracted{name: e.Name(), page: pageNum, index: imageIndexFromFilename(e.Name())})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].page != files[j].page {
			return files[i].page < files[j].page
		}
		if files[i].index != files[j].index {
			return files[i].index < files[j].index
		}
		return files[i].name < files[j].name
	})

	result := make(map[int][]image.Image)
	for _, f := range files {
		img, _, err := imageio.Load(filepath.Join(dir, f.name))
		if err != nil {
			slog.Debug("Skipping unreadable extracted image", "file", f.name, "error", err)
			continue
		}
		result[f.page] = append(result[f.page], img)
	}
	return result, nil
}

// imageIndexFromFilename returns the trailing number of the last name token
// ("page_1_image_10.png" and "doc_1_Im10.png" give 10), or -1 if there is none.
func imageIndexFromFilename(filename string) int {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	token := base[strings.LastIndex(base, "_")+1:]
	start := len(token)
	for start > 0 && token[start-1] >= '0' && token[start-1] <= '9' {
		start--
	}
	n, err := strconv.Atoi(token[start:])
	if err != nil {
		return -1
	}
	return n
}

// parsePageFromFilename extracts the page number from an extracted image name.
// Both "page_<n>_image_<i>.<ext>" and pdfcpu's "<doc>_<n>_<id>.<ext>" forms
// are accepted.
func parsePageFromFilename(filename string) (int, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "_")

	var token string
	switch {
	case strings.HasPrefix(base, "page_") && len(parts) >= 2:
		token = parts[1]
	case len(parts) >= 3:
		token = parts[len(parts)-2]
	default:
		return 0, errors.New("not a page image")
	}

	pageNum, err := strconv.Atoi(token)
	if err != nil || pageNum < 1 {
		return 0, errors.New("invalid page number")
	}
	return pageNum, nil
}

// maxPageRange caps how many pages a single range token may expand to.
const maxPageRange = 10000

// parsePageRange parses a page range string like "1-5" or "1,3,5".
// Pages start at 1.
func parsePageRange(pageRange string) ([]int, error) {
	if strings.TrimSpace(pageRange) == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		tokenPages, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, tokenPages...)
	}
	return pages, nil
}

// parseRangeToken parses either a single page token (e.g., "3") or a range token (e.g., "1-5").
func parseRangeToken(part string) ([]int, error) {
	if strings.Contains(part, "-") {
		rangeParts := strings.Split(part, "-")
		if len(rangeParts) != 2 {
			return nil, fmt.Errorf("invalid range format: %s", part)
		}
		start, err := parsePage(rangeParts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start page: %w", err)
		}
		end, err := parsePage(rangeParts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end page: %w", err)
		}
		if start > end {
			return nil, fmt.Errorf("start page %d greater than end page %d", start, end)
		}
		if end-start+1 > maxPageRange {
			return nil, fmt.Errorf("range %s spans more than %d pages", part, maxPageRange)
		}
		out := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
		return out, nil
	}
	page, err := parsePage(part)
	if err != nil {
		return nil, err
	}
	return []int{page}, nil
}

func parsePage(s string) (int, error) {
	s = strings.TrimSpace(s)
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid page number: %s", s)
	}
	if page < 1 {
		return 0, fmt.Errorf("page number must be at least 1: %d", page)
	}
	return page, nil
}
