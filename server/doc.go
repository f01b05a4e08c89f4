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


// Package server exposes the Moon Atlas chat service over HTTP.
//
// Three routes: GET / and GET /health for liveness, POST /chat for one
// retrieval-augmented turn. Callers receive stable status codes and short
// fixed messages; upstream failure detail is logged, never echoed back.
// Telemetry recording happens after the response is committed and cannot
// affect it.
package server
