// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"sync"
	"unsafe"
)

// Scope 持有拷贝策略与 copier 的缓存，构造完成后冻结，只读共享
type Scope struct {
	copierMap map[unsafe.Pointer]copyFunc
	policyMap map[unsafe.Pointer]policy
	mu        sync.RWMutex // 读多写少的场景，sync.RWMutex的效率比sync.Map更高
	policyMu  sync.RWMutex
	frozen    bool

	// 以下集合只在冻结前写入，冻结后无锁读
	immutableSet map[unsafe.Pointer]bool
	customSet    map[unsafe.Pointer]bool
}

type ScopeOption func(s *Scope)

// NewScope 创建新的作用域
func NewScope(options ...ScopeOption) *Scope {
	scope := &Scope{
		copierMap:    make(map[unsafe.Pointer]copyFunc),
		policyMap:    make(map[unsafe.Pointer]policy),
		immutableSet: make(map[unsafe.Pointer]bool),
		customSet:    make(map[unsafe.Pointer]bool),
	}
	for _, option := range defaultOptions {
		option(scope)
	}
	for _, option := range options {
		option(scope)
	}
	scope.frozen = true
	return scope
}

var defaultScope = NewScope()

// SetDefaultScope ！！慎用！！设置默认作用域，可以改变默认行为
func SetDefaultScope(s *Scope) {
	defaultScope = s
}

// WithImmutable 把类型 T 加入不可变种子集合，T 的实例拷贝时整体别名
func WithImmutable[T any]() ScopeOption {
	typ := typeFor[T]()
	return func(s *Scope) {
		if s.frozen {
			return
		}
		s.immutableSet[typePtr(typ)] = true
	}
}

// WithCopier 注册自定义拷贝器，只能注册到新的作用域里，避免全局污染。
// 允许传入nil，表示禁止拷贝该类型
func WithCopier[T any](copier func(s *Scope, ctx *Context, from T) (to T, err error)) ScopeOption {
	typ := typeFor[T]()
	tp := typePtr(typ)
	return func(s *Scope) {
		if s.frozen {
			return
		}
		var wrappedCopier copyFunc
		if copier != nil {
			wrappedCopier = func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
				var err error
				*(*T)(toAddr), err = copier(s, ctx, *(*T)(fromAddr))
				return err
			}
		}
		s.copierMap[tp] = wrappedCopier
		s.customSet[tp] = true
	}
}
