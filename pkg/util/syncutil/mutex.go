// Copyright 2026 The QLever-Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package syncutil re-exports the standard sync primitives under names
// that match the rest of the call sites (mu.Lock()/mu.Unlock()), giving
// us a single place to add deadlock detection or lock-order assertions
// later without touching every caller.
package syncutil

import "sync"

// Mutex is a sync.Mutex. Exported under this name so struct fields read
// "mu syncutil.Mutex" the way the rest of the codebase expects.
type Mutex = sync.Mutex

// RWMutex is a sync.RWMutex.
type RWMutex = sync.RWMutex
