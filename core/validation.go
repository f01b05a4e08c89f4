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


package core

import "fmt"

// ValidateSourceRow validates a SourceRow according to domain rules.
//
// Validation rules:
//   - MoonName must not be empty
//   - Title must not be empty
//   - Content must not be empty
//   - SourceURL must not be empty
//
// A failing row is fatal to ingestion; rows are never silently skipped.
func ValidateSourceRow(row *SourceRow) error {
	if row == nil {
		return fmt.Errorf("%w: row is nil", ErrInvalidSourceRow)
	}
	if row.MoonName == "" {
		return fmt.Errorf("%w: missing moon name", ErrInvalidSourceRow)
	}
	if row.Title == "" {
		return fmt.Errorf("%w: missing document title for %q", ErrInvalidSourceRow, row.MoonName)
	}
	if row.Content == "" {
		return fmt.Errorf("%w: missing document content for %q", ErrInvalidSourceRow, row.MoonName)
	}
	if row.SourceURL == "" {
		return fmt.Errorf("%w: missing source URL for %q", ErrInvalidSourceRow, row.MoonName)
	}
	return nil
}

// ValidateMessage validates a conversation Message.
//
// Validation rules:
//   - Role must be user or assistant
//   - Content must not be empty
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}
	if err := ValidateRole(msg.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if msg.Content == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrInvalidMessage)
	}
	return nil
}

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return nil
}
