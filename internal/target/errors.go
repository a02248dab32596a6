// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package target

import "errors"

// ErrUnsupportedTriple is returned if no specification is bundled for the
// requested target triple.
var ErrUnsupportedTriple = errors.New("unsupported target triple")
