package firestore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/model/session"
	"github.com/wathbahs/muraji/pkg/domain/types"
	fsrepo "github.com/wathbahs/muraji/pkg/repository/firestore"
	"github.com/wathbahs/muraji/pkg/utils/test"
)

func newClient(t *testing.T) *fsrepo.Client {
	vars := test.NewEnvVars(t, "TEST_FIRESTORE_PROJECT", "TEST_FIRESTORE_DATABASE")

	ctx := context.Background()
	client := gt.R1(fsrepo.New(ctx,
		vars.Get("TEST_FIRESTORE_PROJECT"),
		vars.Get("TEST_FIRESTORE_DATABASE"),
	)).NoError(t)
	t.Cleanup(func() {
		gt.NoError(t, client.Close())
	})
	return client
}

func TestSessionLifecycle(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	gctx := audit.GroundingContext{
		Requirements: []audit.Requirement{
			{FrameworkName: "ISO 27001", RefID: "A.5.1", Name: "Policies"},
		},
		Query: "How should I audit policy management?",
	}
	sess := session.New(ctx, gctx, "instruction text", "", 0)
	gt.NoError(t, client.CreateSession(ctx, sess))
	t.Cleanup(func() {
		gt.NoError(t, client.DeleteSession(ctx, sess.ID))
	})

	// Duplicate create must fail with the conflict sentinel
	err := client.CreateSession(ctx, sess)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, errs.ErrSessionExists))

	got := gt.R1(client.GetSession(ctx, sess.ID)).NoError(t)
	gt.NotNil(t, got)
	gt.Equal(t, got.ID, sess.ID)
	gt.Equal(t, got.Instruction, "instruction text")
	gt.A(t, got.Context.Requirements).Length(1)

	gt.NoError(t, client.PutMessage(ctx, session.NewMessage(ctx, sess.ID, types.RoleUser, "hello", 0)))
	gt.NoError(t, client.PutMessage(ctx, session.NewMessage(ctx, sess.ID, types.RoleAssistant, "hi there", 1)))

	msgs := gt.R1(client.GetMessages(ctx, sess.ID)).NoError(t)
	gt.A(t, msgs).Length(2)
	gt.Equal(t, msgs[0].Text, "hello")
	gt.Equal(t, msgs[1].Text, "hi there")

	summaries := gt.R1(client.ListSessions(ctx)).NoError(t)
	found := false
	for _, s := range summaries {
		if s.ID == sess.ID {
			found = true
			gt.Equal(t, s.MessageCount, 2)
			gt.Equal(t, s.RequirementCount, 1)
		}
	}
	gt.True(t, found)
}

func TestGetSessionMiss(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	got, err := client.GetSession(ctx, types.NewSessionID())
	gt.NoError(t, err)
	gt.Nil(t, got)
}

func TestPutMessageUnknownSession(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	msg := session.NewMessage(ctx, types.NewSessionID(), types.RoleUser, "orphan", 0)
	err := client.PutMessage(ctx, msg)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, errs.ErrSessionNotFound))
}

func TestDeleteSessionCascade(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	sess := session.New(ctx, audit.GroundingContext{Query: "q"}, "instruction", "", 0)
	gt.NoError(t, client.CreateSession(ctx, sess))
	gt.NoError(t, client.PutMessage(ctx, session.NewMessage(ctx, sess.ID, types.RoleUser, "hi", 0)))

	gt.NoError(t, client.DeleteSession(ctx, sess.ID))

	got := gt.R1(client.GetSession(ctx, sess.ID)).NoError(t)
	gt.Nil(t, got)
	msgs := gt.R1(client.GetMessages(ctx, sess.ID)).NoError(t)
	gt.A(t, msgs).Length(0)

	// Deleting an absent session is a no-op
	gt.NoError(t, client.DeleteSession(ctx, sess.ID))
}
