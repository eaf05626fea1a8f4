// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
)

type strErr string

func (e strErr) Error() string {
	return string(e)
}

func unsupportedTypeErr(typ reflect.Type) error {
	return strErr("unsupported type: can't deep copy type <" + getTypeString(typ) + ">")
}

// 延迟解析的 copier 找不到缓存项，属于内部不变量被破坏
func missingCopierErr(typ reflect.Type) error {
	return strErr("invariant violation: no copier built for type <" + getTypeString(typ) + ">")
}

func getTypeString(typ reflect.Type) string {
	if typ == nil {
		return "nil"
	}
	return typ.String()
}
