package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/model/session"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionSessions = "sessions"
	collectionMessages = "messages"
)

// Client is the durable session store backed by Firestore. Messages live in a
// subcollection under their session so deletes cascade within one tree.
type Client struct {
	db *firestore.Client
}

var _ interfaces.Repository = (*Client)(nil)

func New(ctx context.Context, projectID, databaseID string) (*Client, error) {
	db, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.T(errs.TagDatabase))
	}

	return &Client{db: db}, nil
}

func (r *Client) Close() error {
	return r.db.Close()
}

func (r *Client) sessionDoc(sessionID types.SessionID) *firestore.DocumentRef {
	return r.db.Collection(collectionSessions).Doc(string(sessionID))
}

func (r *Client) messages(sessionID types.SessionID) *firestore.CollectionRef {
	return r.sessionDoc(sessionID).Collection(collectionMessages)
}

func (r *Client) CreateSession(ctx context.Context, sess *session.Session) error {
	_, err := r.sessionDoc(sess.ID).Create(ctx, sess)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(errs.ErrSessionExists, "duplicate session id",
				goerr.V("session_id", sess.ID))
		}
		return goerr.Wrap(err, "failed to create session",
			goerr.V("session_id", sess.ID),
			goerr.T(errs.TagDatabase))
	}
	return nil
}

func (r *Client) GetSession(ctx context.Context, sessionID types.SessionID) (*session.Session, error) {
	doc, err := r.sessionDoc(sessionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get session",
			goerr.V("session_id", sessionID),
			goerr.T(errs.TagDatabase))
	}

	var sess session.Session
	if err := doc.DataTo(&sess); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session",
			goerr.V("session_id", sessionID),
			goerr.T(errs.TagDatabase))
	}
	return &sess, nil
}

func (r *Client) ListSessions(ctx context.Context) ([]session.Summary, error) {
	iter := r.db.Collection(collectionSessions).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	summaries := []session.Summary{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions",
				goerr.T(errs.TagDatabase))
		}

		var sess session.Session
		if err := doc.DataTo(&sess); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session",
				goerr.V("doc_id", doc.Ref.ID),
				goerr.T(errs.TagDatabase))
		}

		count, err := r.countMessages(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sess.ToSummary(count))
	}

	return summaries, nil
}

func (r *Client) countMessages(ctx context.Context, sessionID types.SessionID) (int, error) {
	result, err := r.messages(sessionID).
		Query.
		NewAggregationQuery().
		WithCount("total").
		Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count messages",
			goerr.V("session_id", sessionID),
			goerr.T(errs.TagDatabase))
	}
	return extractCountFromAggregationResult(result, "total")
}

// extractCountFromAggregationResult handles both int64 and *firestorepb.Value
// result types the Firestore client can return for a count aggregation.
func extractCountFromAggregationResult(result firestore.AggregationResult, alias string) (int, error) {
	countVal, ok := result[alias]
	if !ok {
		return 0, goerr.New("count alias not found in aggregation result", goerr.V("alias", alias))
	}

	switch v := countVal.(type) {
	case int64:
		return int(v), nil
	case *firestorepb.Value:
		if v != nil && v.ValueType != nil {
			if _, okType := v.ValueType.(*firestorepb.Value_IntegerValue); okType {
				return int(v.GetIntegerValue()), nil
			}
			return 0, goerr.New("aggregation value is not an integer type",
				goerr.V("value_type", fmt.Sprintf("%T", v.ValueType)), goerr.V("alias", alias))
		}
		return 0, goerr.New("count value is a nil or invalid *firestorepb.Value", goerr.V("alias", alias))
	default:
		return 0, goerr.New("unexpected count value type from aggregation",
			goerr.V("type", fmt.Sprintf("%T", v)), goerr.V("alias", alias))
	}
}

func (r *Client) DeleteSession(ctx context.Context, sessionID types.SessionID) error {
	iter := r.messages(sessionID).Documents(ctx)
	defer iter.Stop()

	bw := r.db.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate messages for delete",
				goerr.V("session_id", sessionID),
				goerr.T(errs.TagDatabase))
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return goerr.Wrap(err, "failed to enqueue message delete",
				goerr.V("session_id", sessionID),
				goerr.T(errs.TagDatabase))
		}
	}
	if _, err := bw.Delete(r.sessionDoc(sessionID)); err != nil {
		return goerr.Wrap(err, "failed to enqueue session delete",
			goerr.V("session_id", sessionID),
			goerr.T(errs.TagDatabase))
	}
	bw.End()

	return nil
}

func (r *Client) PutMessage(ctx context.Context, msg *session.Message) error {
	// FK check: the owning session must exist
	sess, err := r.GetSession(ctx, msg.SessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return goerr.Wrap(errs.ErrSessionNotFound, "message for unknown session",
			goerr.V("session_id", msg.SessionID))
	}

	_, err = r.messages(msg.SessionID).Doc(string(msg.ID)).Set(ctx, msg)
	if err != nil {
		return goerr.Wrap(err, "failed to put message",
			goerr.V("session_id", msg.SessionID),
			goerr.V("message_id", msg.ID),
			goerr.T(errs.TagDatabase))
	}
	return nil
}

func (r *Client) GetMessages(ctx context.Context, sessionID types.SessionID) ([]*session.Message, error) {
	iter := r.messages(sessionID).
		OrderBy("created_at", firestore.Asc).
		OrderBy("seq", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	msgs := []*session.Message{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages",
				goerr.V("session_id", sessionID),
				goerr.T(errs.TagDatabase))
		}

		var msg session.Message
		if err := doc.DataTo(&msg); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message",
				goerr.V("doc_id", doc.Ref.ID),
				goerr.T(errs.TagDatabase))
		}
		msgs = append(msgs, &msg)
	}

	return msgs, nil
}
