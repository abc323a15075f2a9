// Copyright (c) 2025, the pcdebug authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(output string) QueryResult {
	return QueryResult{Output: output, Status: StatusOK}
}

func failed(cause string) QueryResult {
	return QueryResult{Output: cause, Status: StatusFailed}
}

func TestValue(t *testing.T) {
	v, found := Value(ok("abc-123"))
	assert.True(t, found)
	assert.Equal(t, "abc-123", v)

	_, found = Value(ok(""))
	assert.False(t, found)

	_, found = Value(failed("no such server"))
	assert.False(t, found)
}

func TestList(t *testing.T) {
	assert.Empty(t, List(ok("")))
	assert.Empty(t, List(failed("boom")))
	assert.Equal(t, []string{"a", "b", "c"}, List(ok("a\nb\nc")))
	assert.Equal(t, []string{"a", "c"}, List(ok("a\n\n  \nc\n")))
}

func TestParentheticalID(t *testing.T) {
	id, found := ParentheticalID("CirrOS (1a2b3c4d)")
	assert.True(t, found)
	assert.Equal(t, "1a2b3c4d", id)

	_, found = ParentheticalID("no-id-here")
	assert.False(t, found)

	// First parentheses win regardless of name content.
	id, found = ParentheticalID("img (uuid-1) trailing (uuid-2)")
	assert.True(t, found)
	assert.Equal(t, "uuid-1", id)
}

func TestLiteralRecords(t *testing.T) {
	t.Run("python literal", func(t *testing.T) {
		recs, err := LiteralRecords(`[{'id': 'vol-1', 'device': '/dev/vda'}, {'id': 'vol-2'}]`)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "vol-1", recs[0]["id"])
		assert.Equal(t, "/dev/vda", recs[0]["device"])
	})

	t.Run("genuine json", func(t *testing.T) {
		recs, err := LiteralRecords(`[{"id": "vol-1", "delete_on_termination": false}]`)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, false, recs[0]["delete_on_termination"])
	})

	t.Run("python constants", func(t *testing.T) {
		recs, err := LiteralRecords(`[{'id': 'v', 'attached': True, 'tag': None}]`)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, true, recs[0]["attached"])
		assert.Nil(t, recs[0]["tag"])
	})

	t.Run("empty input", func(t *testing.T) {
		recs, err := LiteralRecords("")
		assert.NoError(t, err)
		assert.Nil(t, recs)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LiteralRecords("ERROR: not found")
		assert.Error(t, err)

		_, err = LiteralRecords("[{'id': ")
		assert.Error(t, err)
	})
}

func TestLiteralStrings(t *testing.T) {
	ids, err := LiteralStrings(`['sg-1', 'sg-2']`)
	require.NoError(t, err)
	assert.Equal(t, []string{"sg-1", "sg-2"}, ids)

	ids, err = LiteralStrings(`["sg-1"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"sg-1"}, ids)

	ids, err = LiteralStrings("")
	assert.NoError(t, err)
	assert.Nil(t, ids)

	_, err = LiteralStrings("not a list")
	assert.Error(t, err)
}

func TestJSONField(t *testing.T) {
	v, err := JSONField(`{"attachments": [{"attachment_id": "att-1"}]}`, "attachments")
	require.NoError(t, err)
	recs, isList := v.([]any)
	require.True(t, isList)
	assert.Len(t, recs, 1)

	_, err = JSONField(`{"other": 1}`, "attachments")
	assert.Error(t, err)

	_, err = JSONField(`+----+`, "attachments")
	assert.Error(t, err)
}

func TestFlavorID(t *testing.T) {
	id, found := FlavorID("m1.small (42)")
	assert.True(t, found)
	assert.Equal(t, "42", id)

	id, found = FlavorID(`{'id': 'flv-9', 'vcpus': 2, 'swap': 0}`)
	assert.True(t, found)
	assert.Equal(t, "flv-9", id)

	id, found = FlavorID(`{"id": "flv-json", "ram": 2048}`)
	assert.True(t, found)
	assert.Equal(t, "flv-json", id)

	_, found = FlavorID("")
	assert.False(t, found)

	_, found = FlavorID("{'vcpus': 2}")
	assert.False(t, found)
}

func TestLiteralToJSON_QuoteHandling(t *testing.T) {
	// Embedded double quotes inside single-quoted strings must be escaped.
	recs, err := LiteralRecords(`[{'name': 'disk "fast"'}]`)
	require.NoError(t, err)
	assert.Equal(t, `disk "fast"`, recs[0]["name"])

	// Words resembling constants inside strings stay untouched.
	recs, err = LiteralRecords(`[{'note': 'None of these'}]`)
	require.NoError(t, err)
	assert.Equal(t, "None of these", recs[0]["note"])
}
