// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"reflect"
	"testing"

	"github.com/danielhkuo/quickly-ask/models"
)

func TestIsAuthorized(t *testing.T) {
	list := NewAllowList([]int64{1001}, []string{"@Alice", " bob ", ""})

	tests := []struct {
		name string
		user models.Identity
		want bool
	}{
		{"by id", models.Identity{ID: 1001}, true},
		{"by handle", models.Identity{ID: 5, Handle: "alice"}, true},
		{"handle case", models.Identity{ID: 5, Handle: "ALICE"}, true},
		{"handle with at", models.Identity{ID: 5, Handle: "@bob"}, true},
		{"unknown", models.Identity{ID: 5, Handle: "mallory"}, false},
		{"no handle", models.Identity{ID: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := list.IsAuthorized(tt.user); got != tt.want {
				t.Errorf("IsAuthorized(%+v) = %v, want %v", tt.user, got, tt.want)
			}
		})
	}
}

func TestEmptyAllowList(t *testing.T) {
	var nilList *AllowList
	if nilList.IsAuthorized(models.Identity{ID: 1}) || !nilList.Empty() {
		t.Error("nil list should deny everyone")
	}
	if list := NewAllowList(nil, []string{" ", "@"}); !list.Empty() {
		t.Error("blank handles should not count")
	}
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int64
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"list", "1, 2,,-3", []int64{1, 2, -3}, false},
		{"bad", "1,abc", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDs(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseHandles(t *testing.T) {
	got := ParseHandles(" alice ,, @Bob")
	want := []string{"alice", "@Bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseHandles() = %v, want %v", got, want)
	}
}
