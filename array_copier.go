// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"unsafe"
)

// 多维数组展平处理：元素在内存里连续存放，维度只决定总数，
// 步长恒为最终元素大小，线性下标即可遍历全部单元
func getArrayCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	elemType := typ.Elem()
	total := typ.Len()
	for elemType.Kind() == reflect.Array {
		total *= elemType.Len()
		elemType = elemType.Elem()
	}
	if total == 0 || s.classify(elemType) != policyMutable {
		// 元素不可变时整块复制
		return memCopier(typ)
	}
	elemCopier := getElemCopier(s, elemType, building)
	elemSize := elemType.Size()
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		for i := 0; i < total; i++ {
			if err := elemCopier(ctx, offset(fromAddr, i, elemSize), offset(toAddr, i, elemSize)); err != nil {
				return err
			}
		}
		return nil
	}
}
