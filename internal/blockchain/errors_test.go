// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"testing"
)

// TestErrFullySpentIsDistinctFromOtherDeserializeErrors guards the
// distinction a persistence layer relies on: ErrFullySpent must be the
// *only* DeserializeError that means "delete the key instead of writing a
// record." An unrelated DeserializeError, such as the header-code overflow
// guard in Serialize, must not compare equal to it even though both share
// the same underlying type.
func TestErrFullySpentIsDistinctFromOtherDeserializeErrors(t *testing.T) {
	other := errDeserialize("extended spent-field size %d overflows the "+
		"header code's practical range", 1<<32)

	if errors.Is(other, ErrFullySpent) {
		t.Fatal("an unrelated DeserializeError must not be errors.Is the ErrFullySpent sentinel")
	}
	if !errors.Is(ErrFullySpent, ErrFullySpent) {
		t.Fatal("ErrFullySpent must be errors.Is itself")
	}

	var asDeserializeError DeserializeError
	if !errors.As(other, &asDeserializeError) || !errors.As(ErrFullySpent, &asDeserializeError) {
		t.Fatal("both errors must still satisfy errors.As(*DeserializeError)")
	}
}

// TestSerializeFullySpentReturnsSentinel pins Serialize's actual return
// value for a fully-spent record to the sentinel, not just some
// DeserializeError with matching text.
func TestSerializeFullySpentReturnsSentinel(t *testing.T) {
	hash := mustHash(0x42)
	c := NewCoins(hash, 1, 100, false, []Output{
		{Value: 50, Script: p2pkhScript(hash20Seq())},
	})
	c.Spend(0)

	_, err := c.Serialize()
	if !errors.Is(err, ErrFullySpent) {
		t.Fatalf("Serialize on a fully-spent record returned %v, want ErrFullySpent", err)
	}
}
