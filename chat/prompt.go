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

package chat

import "strings"

// SystemInstruction is the fixed persona sent with every completion.
const SystemInstruction = "You are an expert on Jupiter's moons. Provide accurate, scientific information."

// BuildFinalTurn renders the retrieved context and the user's question into
// the final user turn of the prompt. The context block is the chunk texts
// joined by blank lines, in retrieval rank order.
func BuildFinalTurn(contextTexts []string, question string) string {
	var b strings.Builder
	b.WriteString("Context: ")
	b.WriteString(strings.Join(contextTexts, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
