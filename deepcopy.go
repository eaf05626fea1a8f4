// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package deepcopy 提供任意对象图的深拷贝：
// 拷贝结果与原值不共享任何可变子结构，同时保留原图的引用拓扑，
// 原图里共享的对象在结果里仍然共享，环被复制为同构的环。
package deepcopy

import (
	"reflect"
	"unsafe"
)

// DeepCopy 深拷贝，拷贝规则详见README
func DeepCopy[T any](v T) (T, error) {
	return DeepCopyWithScope(defaultScope, v)
}

// DeepCopyWithScope 在指定作用域下深拷贝
func DeepCopyWithScope[T any](s *Scope, v T) (to T, err error) {
	typ := typeFor[T]()
	copier := getCopier(s, typ)
	if copier == nil {
		return to, unsupportedTypeErr(typ)
	}
	ctx := acquireContext()
	// 当v包含指针时，这部分指针指向的内容会逃逸
	escape(v)
	err = copier(ctx, noEscape(unsafe.Pointer(&v)), noEscape(unsafe.Pointer(&to)))
	releaseContext(ctx)
	return to, err
}

// DeepCopyWithContext 复用调用方持有的 Context：
// 多次拷贝共享身份映射，同一原对象在多次结果里是同一份拷贝
func DeepCopyWithContext[T any](ctx *Context, v T) (to T, err error) {
	typ := typeFor[T]()
	copier := getCopier(defaultScope, typ)
	if copier == nil {
		return to, unsupportedTypeErr(typ)
	}
	escape(v)
	err = copier(ctx, noEscape(unsafe.Pointer(&v)), noEscape(unsafe.Pointer(&to)))
	return to, err
}

// GetDeepCopier 获取类型 T 的深拷贝函数，对比直接调用 DeepCopy 少了查缓存的步骤，性能会略微好一点
func GetDeepCopier[T any]() func(T) (T, error) {
	return GetDeepCopierWithScope[T](defaultScope)
}

// GetDeepCopierWithScope 同 GetDeepCopier，在指定作用域下
func GetDeepCopierWithScope[T any](s *Scope) func(T) (T, error) {
	typ := typeFor[T]()
	copier := getCopier(s, typ)
	if copier == nil {
		e := unsupportedTypeErr(typ)
		return func(v T) (to T, err error) {
			return to, e
		}
	}
	return func(v T) (to T, err error) {
		ctx := acquireContext()
		escape(v)
		err = copier(ctx, noEscape(unsafe.Pointer(&v)), noEscape(unsafe.Pointer(&to)))
		releaseContext(ctx)
		return to, err
	}
}

// MustGetDeepCopierWithScope 同 GetDeepCopierWithScope，当类型被禁止拷贝时会 panic
func MustGetDeepCopierWithScope[T any](s *Scope) func(T) (T, error) {
	typ := typeFor[T]()
	if getCopier(s, typ) == nil {
		panic(unsupportedTypeErr(typ))
	}
	return GetDeepCopierWithScope[T](s)
}

// ReflectDeepCopy 以反射的方式深拷贝，按运行时类型分发
func ReflectDeepCopy(v reflect.Value) (reflect.Value, error) {
	return ReflectDeepCopyWithScope(defaultScope, v)
}

// ReflectDeepCopyWithScope 同 ReflectDeepCopy，在指定作用域下
func ReflectDeepCopyWithScope(s *Scope, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return v, nil
	}
	typ := v.Type()
	copier := getCopier(s, typ)
	if copier == nil {
		return reflect.Value{}, unsupportedTypeErr(typ)
	}
	ctx := acquireContext()
	defer releaseContext(ctx)
	toPtr := reflect.New(typ)
	if err := copier(ctx, getValueAddr(v), toPtr.UnsafePointer()); err != nil {
		return reflect.Value{}, err
	}
	return toPtr.Elem(), nil
}

// Immutabler 用户类型实现该接口后被视为不可变类型，拷贝时整体别名
type Immutabler interface {
	Immutable()
}

// Immutable 不可变包装：引擎不深入其内部，payload 原样别名
type Immutable[T any] struct {
	Value T
}

func (Immutable[T]) Immutable() {}

// WrapImmutable 包装一个值，使引擎跳过它
func WrapImmutable[T any](v T) Immutable[T] {
	return Immutable[T]{Value: v}
}
