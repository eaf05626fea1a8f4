package deepcopy

import (
	"testing"
)

// 复用同一个 Context，多次拷贝共享身份映射
func TestContextContinuity(t *testing.T) {
	ctx := NewContext()
	p := &poco{I: 1}
	c1, err := DeepCopyWithContext(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := DeepCopyWithContext(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Fatal()
	}
	if c1 == p {
		t.Fatal()
	}
}

func TestContextReset(t *testing.T) {
	ctx := NewContext()
	p := &poco{I: 1}
	c1, err := DeepCopyWithContext(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Len() == 0 {
		t.Fatal()
	}
	ctx.Reset()
	if ctx.Len() != 0 {
		t.Fatal()
	}
	c2, err := DeepCopyWithContext(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if c1 == c2 {
		t.Fatal()
	}
}

// 跨两次拷贝的共享结构在结果里保持共享
func TestContextSharedAcrossGraphs(t *testing.T) {
	shared := &poco{I: 7}
	a := []*poco{shared, {I: 1}}
	b := []*poco{shared, {I: 2}}
	ctx := NewContext()
	ca, err := DeepCopyWithContext(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := DeepCopyWithContext(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if ca[0] != cb[0] {
		t.Fatal()
	}
	if ca[0] == shared {
		t.Fatal()
	}
	if ca[1] == cb[1] {
		t.Fatal()
	}
}

// 一次顶层拷贝结束后上下文被清空归还，池不会观察到脏状态
func TestPooledContextIsClean(t *testing.T) {
	p := &poco{I: 1}
	if _, err := DeepCopy(p); err != nil {
		t.Fatal(err)
	}
	ctx := acquireContext()
	defer releaseContext(ctx)
	if ctx.Len() != 0 {
		t.Fatal()
	}
}
