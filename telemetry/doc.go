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


// Package telemetry records completed chat interactions as OpenTelemetry
// trace spans.
//
// Each interaction becomes one workflow trace: a root span carrying the
// question and conclusion, an optional retrieval child span with one event
// per retrieved chunk, and a generation child span with the model call's
// input, output, and flattened history. Recording is asynchronous and
// best-effort; a telemetry failure never affects the chat response.
package telemetry
