// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
)

var (
	boolType    = typeFor[bool]()
	intType     = typeFor[int]()
	int64Type   = typeFor[int64]()
	float64Type = typeFor[float64]()
	stringType  = typeFor[string]()

	immutablerType  = typeFor[Immutabler]()
	reflectTypeType = typeFor[reflect.Type]()
)
