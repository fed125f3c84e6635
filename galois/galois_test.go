package galois

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func elementGen() *rapid.Generator[Element] {
	return rapid.Custom(func(t *rapid.T) Element {
		return Element(rapid.IntRange(0, 255).Draw(t, "e"))
	})
}

func nonZeroElementGen() *rapid.Generator[Element] {
	return rapid.Custom(func(t *rapid.T) Element {
		return Element(rapid.IntRange(1, 255).Draw(t, "e"))
	})
}

func TestAddCommutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		b := elementGen().Draw(t, "b")
		assert.Equal(t, Add(a, b), Add(b, a))
	})
}

func TestMulCommutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		b := elementGen().Draw(t, "b")
		assert.Equal(t, Mul(a, b), Mul(b, a))
	})
}

func TestAddAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		b := elementGen().Draw(t, "b")
		c := elementGen().Draw(t, "c")
		assert.Equal(t, Add(Add(a, b), c), Add(a, Add(b, c)))
	})
}

func TestMulAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		b := elementGen().Draw(t, "b")
		c := elementGen().Draw(t, "c")
		assert.Equal(t, Mul(Mul(a, b), c), Mul(a, Mul(b, c)))
	})
}

func TestDistributive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		b := elementGen().Draw(t, "b")
		c := elementGen().Draw(t, "c")
		assert.Equal(t, Mul(a, Add(b, c)), Add(Mul(a, b), Mul(a, c)))
	})
}

func TestSelfInverseUnderAdd(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		assert.Equal(t, Zero, Add(a, a))
	})
}

func TestMulIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		assert.Equal(t, a, Mul(a, One))
	})
}

func TestMulByZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		assert.Equal(t, Zero, Mul(a, Zero))
	})
}

func TestMultiplicativeInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := nonZeroElementGen().Draw(t, "a")
		assert.Equal(t, One, Mul(a, Inv(a)))
	})
}

func TestDivBySelf(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := nonZeroElementGen().Draw(t, "a")
		assert.Equal(t, One, Div(a, a))
	})
}

func TestInvPanicsOnZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Inv(0) should panic")
		}
	}()
	Inv(Zero)
}

func TestDivPanicsOnZeroDivisor(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Div(a, 0) should panic")
		}
	}()
	Div(1, Zero)
}

func TestPowZeroZero(t *testing.T) {
	assert.Equal(t, One, Pow(Zero, 0))
}

func TestPowMatchesRepeatedMul(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elementGen().Draw(t, "a")
		n := rapid.IntRange(0, 8).Draw(t, "n")
		want := One
		for i := 0; i < n; i++ {
			want = Mul(want, a)
		}
		assert.Equal(t, want, Pow(a, n))
	})
}

func TestLogAntilogMutualInverse(t *testing.T) {
	log, antilog := Tables()
	for i := 1; i <= 255; i++ {
		if antilog[log[i]] != byte(i) {
			t.Errorf("antilog[log[%d]] = %d, want %d", i, antilog[log[i]], i)
		}
	}
}

func TestLogOfOneIsZero(t *testing.T) {
	log, _ := Tables()
	if log[1] != 0 {
		t.Errorf("log[1] = %d, want 0", log[1])
	}
}
