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
	"fmt"
	"strings"

	"github.com/jovianatlas/moonatlas/core"
)

// GroupRows combines source rows into one EntityDocument per distinct moon
// name. Grouping key equality is exact string match. Documents come out in
// first-encountered order of moon names, and row order within a group is
// preserved in the concatenated content — document readability depends on
// the title/body pairing order.
//
// The combined content has the shape:
//
//	# <moon>
//
//	<title>:
//	<body>
//
//	<title>:
//	<body>
func GroupRows(rows []core.SourceRow) ([]core.EntityDocument, error) {
	groups := make(map[string][]core.SourceRow)
	var order []string

	for i := range rows {
		row := rows[i]
		if err := core.ValidateSourceRow(&row); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrIngestionData, err)
		}
		if _, seen := groups[row.MoonName]; !seen {
			order = append(order, row.MoonName)
		}
		groups[row.MoonName] = append(groups[row.MoonName], row)
	}

	documents := make([]core.EntityDocument, 0, len(order))
	for _, name := range order {
		documents = append(documents, buildDocument(name, groups[name]))
	}
	return documents, nil
}

func buildDocument(name string, group []core.SourceRow) core.EntityDocument {
	sections := make([]string, 0, len(group))
	urls := make([]string, 0, len(group))
	seen := make(map[string]bool, len(group))

	for _, row := range group {
		sections = append(sections, row.Title+":\n"+row.Content)
		if !seen[row.SourceURL] {
			seen[row.SourceURL] = true
			urls = append(urls, row.SourceURL)
		}
	}

	return core.EntityDocument{
		MoonName: name,
		Content:  "# " + name + "\n\n" + strings.Join(sections, "\n\n"),
		Metadata: map[string]any{
			core.MetaMoonName:      name,
			core.MetaDocumentCount: len(group),
			core.MetaSourceURLs:    urls,
		},
		SourceURL: group[0].SourceURL,
	}
}
