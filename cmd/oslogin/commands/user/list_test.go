package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfly/compute-image-packages/internal/directorytest"
	"github.com/wonderfly/compute-image-packages/pkg/buffer"
	"github.com/wonderfly/compute-image-packages/pkg/directory"
	"github.com/wonderfly/compute-image-packages/pkg/resolver"
)

func TestCollectRecords(t *testing.T) {
	srv := directorytest.New(
		directorytest.Profile{UID: 2000, Username: "alice"},
		directorytest.Profile{UID: 2001, Username: "bob"},
	)
	defer srv.Close()

	res := resolver.New(directory.New(srv.URL()))
	buf := buffer.NewWriter(make([]byte, 4096))

	records, err := collectRecords(context.Background(), res, buf)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Name)
	assert.Equal(t, uint32(2000), records[0].UID)
	assert.Equal(t, "bob", records[1].Name)
}

func TestCollectRecords_SkipsEntriesWithoutAccounts(t *testing.T) {
	// A profile with no posixAccounts is a legitimate directory entry
	// (a service identity, say). It must cost a warning, not the
	// whole listing.
	srv := directorytest.New(
		directorytest.Profile{UID: 2000, Username: "alice"},
		directorytest.Profile{Raw: `{"name":"svc@example.com"}`},
		directorytest.Profile{UID: 2002, Username: "carol"},
	)
	defer srv.Close()

	res := resolver.New(directory.New(srv.URL()))
	buf := buffer.NewWriter(make([]byte, 4096))

	records, err := collectRecords(context.Background(), res, buf)

	require.NoError(t, err)
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"alice", "carol"}, names)
}

func TestCollectRecords_SkipsInvalidEntries(t *testing.T) {
	srv := directorytest.New(
		directorytest.Profile{Raw: `{"posixAccounts":[{"uid":"7","username":"lowuid"}]}`},
		directorytest.Profile{UID: 2001, Username: "bob"},
	)
	defer srv.Close()

	res := resolver.New(directory.New(srv.URL()))
	buf := buffer.NewWriter(make([]byte, 4096))

	records, err := collectRecords(context.Background(), res, buf)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bob", records[0].Name)
}
