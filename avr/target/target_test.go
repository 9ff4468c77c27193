// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package target

import "testing"

func TestByNameDefaultsToATmega32U4(t *testing.T) {
	tg, ok := ByName("")
	if !ok {
		t.Fatal("ByName(\"\") = false, want true")
	}
	if tg.Name != ATmega32U4Name {
		t.Fatalf("ByName(\"\").Name = %q, want %q", tg.Name, ATmega32U4Name)
	}
}

func TestByNameUnknownFails(t *testing.T) {
	if _, ok := ByName("bogus"); ok {
		t.Fatal("ByName(\"bogus\") = true, want false")
	}
}

func TestHasPortE(t *testing.T) {
	if !ATmega32U4().HasPortE() {
		t.Fatal("ATmega32U4 should report HasPortE() = true")
	}
	if ATmega328().HasPortE() {
		t.Fatal("ATmega328 should report HasPortE() = false")
	}
}

func TestEntryPointsDiffer(t *testing.T) {
	u4 := ATmega32U4()
	uno := ATmega328()
	if u4.Entry == uno.Entry {
		t.Fatal("ATmega32U4 and ATmega328 should not share the same reset entry point")
	}
}
