// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"maps"
	"strings"

	"github.com/jovianatlas/moonatlas/core"
)

// SplitDocument breaks an EntityDocument into chunks at top-level heading
// boundaries. Splitting is heading-driven, never length-driven: a document
// whose only heading is its own title yields exactly one chunk equal to
// its full content, and a long section without sub-headings stays whole.
//
// Chunk texts are raw slices of the content, so concatenating them
// reproduces the document losslessly. Each chunk's metadata is the
// document metadata plus the heading text under the moon_name key; on a
// key collision the heading value wins.
func SplitDocument(doc core.EntityDocument) []core.Chunk {
	segments := splitAtHeadings(doc.Content)

	chunks := make([]core.Chunk, 0, len(segments))
	for _, seg := range segments {
		metadata := maps.Clone(doc.Metadata)
		if metadata == nil {
			metadata = make(map[string]any, 1)
		}
		if seg.heading != "" {
			metadata[core.MetaMoonName] = seg.heading
		}

		chunks = append(chunks, core.Chunk{
			Id:        core.IDFromContent(doc.MoonName + ":" + seg.text),
			Text:      seg.text,
			Metadata:  metadata,
			SourceURL: doc.SourceURL,
		})
	}
	return chunks
}

type segment struct {
	heading string
	text    string
}

// splitAtHeadings cuts the content at every line beginning with "# ".
// Deeper headings ("## " and below) stay inside their segment. Text before
// the first heading becomes a headingless segment. The segment texts
// partition the content exactly.
func splitAtHeadings(content string) []segment {
	if content == "" {
		return []segment{{text: ""}}
	}

	var starts []int
	lineStart := 0
	for lineStart <= len(content) {
		if isTopLevelHeading(content[lineStart:]) {
			starts = append(starts, lineStart)
		}
		next := strings.IndexByte(content[lineStart:], '\n')
		if next < 0 {
			break
		}
		lineStart += next + 1
	}

	if len(starts) == 0 {
		return []segment{{text: content}}
	}

	var segments []segment
	if starts[0] > 0 {
		segments = append(segments, segment{text: content[:starts[0]]})
	}
	for i, start := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		text := content[start:end]
		segments = append(segments, segment{
			heading: headingText(text),
			text:    text,
		})
	}
	return segments
}

// isTopLevelHeading reports whether the text begins with a single-hash
// markdown heading.
func isTopLevelHeading(text string) bool {
	return strings.HasPrefix(text, "# ")
}

// headingText extracts the heading from a segment's first line.
func headingText(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "# "))
}
