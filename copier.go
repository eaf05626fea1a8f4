// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"unsafe"
)

// fromAddr, toAddr 都不能为 nil
// 不要求 toAddr 指向的内存为 0 值，copier 会完整写入
type copyFunc func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error

func getCopier(s *Scope, typ reflect.Type) copyFunc {
	tp := typePtr(typ)
	s.mu.RLock()
	c, ok := s.copierMap[tp]
	s.mu.RUnlock()
	if ok {
		return c
	}
	return buildCopier(s, typ, make(map[unsafe.Pointer]bool))
}

// 构造期间的递归类型引用通过 deferredCopier 延迟到首次调用时查表
func getCopierRec(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	tp := typePtr(typ)
	s.mu.RLock()
	c, ok := s.copierMap[tp]
	s.mu.RUnlock()
	if ok {
		return c
	}
	if building[tp] {
		return deferredCopier(s, typ)
	}
	return buildCopier(s, typ, building)
}

func buildCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	tp := typePtr(typ)
	building[tp] = true
	c := newCopier(s, typ, building)
	delete(building, tp)
	// 并发构造时允许重复计算，后写的覆盖先写的，功能等价
	s.mu.Lock()
	s.copierMap[tp] = c
	s.mu.Unlock()
	return c
}

func newCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	switch s.classify(typ) {
	case policyImmutable, policyShallow:
		// 不可变类型按位复制即别名，浅拷贝类型按位复制即完成
		return memCopier(typ)
	}
	switch typ.Kind() {
	case reflect.Array:
		return getArrayCopier(s, typ, building)
	case reflect.Interface:
		return getInterfaceCopier(s, typ)
	case reflect.Map:
		return getMapCopier(s, typ, building)
	case reflect.Pointer:
		return getPointerCopier(s, typ, building)
	case reflect.Slice:
		return getSliceCopier(s, typ, building)
	case reflect.Struct:
		return getStructCopier(s, typ, building)
	default:
		return memCopier(typ)
	}
}

// getElemCopier 同 getCopierRec，被禁止拷贝的类型转为调用期报错
func getElemCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	if c := getCopierRec(s, typ, building); c != nil {
		return c
	}
	return failCopier(typ)
}

func memCopier(typ reflect.Type) copyFunc {
	tp := typePtr(typ)
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		typedmemmove(tp, toAddr, fromAddr)
		return nil
	}
}

func failCopier(typ reflect.Type) copyFunc {
	err := unsupportedTypeErr(typ)
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		return err
	}
}

func deferredCopier(s *Scope, typ reflect.Type) copyFunc {
	tp := typePtr(typ)
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		s.mu.RLock()
		c := s.copierMap[tp]
		s.mu.RUnlock()
		if c == nil {
			return missingCopierErr(typ)
		}
		return c(ctx, fromAddr, toAddr)
	}
}
