// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"unsafe"
)

func getPointerCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	elemType := typ.Elem()
	elemTypePtr := typePtr(elemType)
	var elemCopier copyFunc
	if s.classify(elemType) == policyMutable {
		elemCopier = getElemCopier(s, elemType, building)
	} else {
		// Go 没有只读字段，*T 哪怕 T 不可变也可能被写穿，指向对象按位复制
		elemCopier = memCopier(elemType)
	}
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		p := *(*unsafe.Pointer)(fromAddr)
		if p == nil {
			*(*unsafe.Pointer)(toAddr) = nil
			return nil
		}
		if copied, ok := ctx.lookup(p, elemTypePtr, 0); ok {
			*(*unsafe.Pointer)(toAddr) = copied
			return nil
		}
		copied := newObject(elemType)
		// 先登记再递归：自引用在递归里命中上面的查表，
		// 拿到的是未填完的拷贝，递归返回时已填充完整
		ctx.record(p, elemTypePtr, 0, copied)
		*(*unsafe.Pointer)(toAddr) = copied
		return elemCopier(ctx, p, copied)
	}
}
