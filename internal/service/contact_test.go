package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Knudge/internal/model/dto"
	pkgerrors "Knudge/pkg/errors"
	"Knudge/pkg/snowflake"
	"Knudge/pkg/token"
)

func TestMain(m *testing.M) {
	if err := snowflake.Init(1, 1); err != nil {
		panic(err)
	}
	if err := token.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func contactNames(resp dto.ContactListResponse) []string {
	names := make([]string, 0, len(resp.Contacts))
	for _, c := range resp.Contacts {
		names = append(names, c.Name)
	}
	return names
}

func TestContactList(t *testing.T) {
	ctx := context.Background()
	svc := &ContactService{}

	tests := []struct {
		name  string
		query dto.ContactListQuery
		want  []string
	}{
		{"empty query returns everyone", dto.ContactListQuery{}, []string{"Sarah Chen", "John Investor", "Emily Rodriguez", "Michael Chang", "Lisa Park", "David Kim"}},
		{"search is case insensitive", dto.ContactListQuery{Q: "CHEN"}, []string{"Sarah Chen"}},
		{"vip filter uses flag", dto.ContactListQuery{Circle: "VIP"}, []string{"Sarah Chen", "John Investor", "David Kim"}},
		{"named circle", dto.ContactListQuery{Circle: "Friends"}, []string{"Emily Rodriguez", "David Kim"}},
		{"search and filter combine", dto.ContactListQuery{Q: "an", Circle: "Work"}, []string{"Michael Chang"}},
		{"no match", dto.ContactListQuery{Q: "zzz"}, []string{}},
		{"search keeps surrounding spaces", dto.ContactListQuery{Q: "chen "}, []string{}},
		{"leading space matches word boundary", dto.ContactListQuery{Q: " chen"}, []string{"Sarah Chen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.List(ctx, tt.query)
			assert.Equal(t, tt.want, contactNames(resp))
			assert.Equal(t, len(tt.want), resp.Total)
		})
	}
}

func TestContactGet(t *testing.T) {
	svc := &ContactService{}

	detail, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Chen", detail.Contact.Name)
	assert.Len(t, detail.Conversations, 3)
	assert.Len(t, detail.Feeds, 3)

	_, err = svc.Get(context.Background(), "404")
	assert.ErrorIs(t, err, pkgerrors.ContactNotFound)
}

func TestContactCreate(t *testing.T) {
	svc := &ContactService{}

	_, err := svc.Create(context.Background(), "u1", dto.CreateContactRequest{Name: "   "})
	require.ErrorIs(t, err, pkgerrors.ContactNameRequired)

	resp, err := svc.Create(context.Background(), "u1", dto.CreateContactRequest{Name: " Ada Lovelace "})
	require.NoError(t, err)
	assert.Equal(t, " Ada Lovelace ", resp.Name)
	assert.Equal(t, " Ada Lovelace  added to contacts!", resp.Message)
	assert.NotEmpty(t, resp.ID)

	assert.Len(t, svc.List(context.Background(), dto.ContactListQuery{}).Contacts, 6)
}
