// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"unsafe"
)

func getSliceCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	elemType := typ.Elem()
	elemTypePtr := typePtr(elemType)
	if s.classify(elemType) != policyMutable {
		return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
			from := *(*slice)(fromAddr)
			to := (*slice)(toAddr)
			if from.len == 0 {
				// nil 与空切片观察上不可变，原样返回
				*to = from
				return nil
			}
			if copied, ok := ctx.lookup(from.data, elemTypePtr, from.len); ok {
				*to = slice{data: copied, len: from.len, cap: from.len}
				return nil
			}
			*to = makeSlice(elemType, from.len, from.len)
			typedslicecopy(elemTypePtr, to.data, to.len, from.data, from.len)
			ctx.record(from.data, elemTypePtr, from.len, to.data)
			return nil
		}
	}
	elemCopier := getElemCopier(s, elemType, building)
	elemSize := elemType.Size()
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		from := *(*slice)(fromAddr)
		to := (*slice)(toAddr)
		if from.len == 0 {
			*to = from
			return nil
		}
		if copied, ok := ctx.lookup(from.data, elemTypePtr, from.len); ok {
			*to = slice{data: copied, len: from.len, cap: from.len}
			return nil
		}
		*to = makeSlice(elemType, from.len, from.len)
		// 先登记再递归，环由查表短路
		ctx.record(from.data, elemTypePtr, from.len, to.data)
		for i := 0; i < from.len; i++ {
			if err := elemCopier(ctx, offset(from.data, i, elemSize), offset(to.data, i, elemSize)); err != nil {
				return err
			}
		}
		return nil
	}
}
