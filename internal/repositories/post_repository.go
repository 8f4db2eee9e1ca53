package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/writeapp/backend/internal/models"
	"github.com/writeapp/backend/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository defines the interface for post data operations. Every
// read takes the viewing user's id so results carry a correct ownership
// flag; every mutation takes the acting user's id and verifies ownership
// before writing.
type PostRepository interface {
	CreatePost(ctx context.Context, title, body string, author primitive.ObjectID) (primitive.ObjectID, error)
	UpdatePost(ctx context.Context, id, title, body string, visitor primitive.ObjectID) error
	DeletePost(ctx context.Context, id string, visitor primitive.ObjectID) error
	FindSingleByID(ctx context.Context, id string, visitor primitive.ObjectID) (*models.PostView, error)
	FindByAuthorID(ctx context.Context, author, visitor primitive.ObjectID) ([]models.PostView, error)
	Feed(ctx context.Context, visitor primitive.ObjectID) ([]models.PostView, error)
	Search(ctx context.Context, term string, visitor primitive.ObjectID) ([]models.PostView, error)
	CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
}

// MongoPostRepository implements PostRepository on a MongoDB posts
// collection. Feed membership is resolved through the follow repository.
type MongoPostRepository struct {
	collection *mongo.Collection
	follows    FollowRepository
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database, follows FollowRepository) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts"), follows: follows}
}

// EnsureIndexes creates the text index that Search depends on. Called once
// at bootstrap.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: "text"}, {Key: "body", Value: "text"}},
	})
	return err
}

// cleanPost trims and strips all markup from the candidate fields, then
// validates the sanitized values. Both rule violations accumulate so the
// caller gets the full list at once.
func cleanPost(title, body string) (string, string, *ValidationError) {
	title = sanitize.Plain(title)
	body = sanitize.Plain(body)

	var messages []string
	if title == "" {
		messages = append(messages, "You must provide a title")
	}
	if body == "" {
		messages = append(messages, "You must provide post content")
	}
	if len(messages) > 0 {
		return "", "", &ValidationError{Messages: messages}
	}
	return title, body, nil
}

// aggregatedPost is the raw pipeline output before the per-viewer cleanup.
type aggregatedPost struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Body        string             `bson:"body"`
	CreatedDate time.Time          `bson:"createdDate"`
	AuthorID    primitive.ObjectID `bson:"authorId"`
	Author      models.User        `bson:"author"`
}

// queryPosts is the reusable aggregation every read funnels through: the
// caller's match/sort stages, a join against the users collection, a fixed
// projection, and any trailing stages (Search appends its relevance sort
// here). Ownership and the author projection are computed in application
// code afterwards; the raw author id never leaves this method.
func (r *MongoPostRepository) queryPosts(ctx context.Context, unique []bson.D, visitor primitive.ObjectID, final ...bson.D) ([]models.PostView, error) {
	pipeline := make([]bson.D, 0, len(unique)+2+len(final))
	pipeline = append(pipeline, unique...)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDocument"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "body", Value: 1},
			{Key: "createdDate", Value: 1},
			{Key: "authorId", Value: "$author"},
			{Key: "author", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$authorDocument", 0}}}},
		}}},
	)
	pipeline = append(pipeline, final...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating posts: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []aggregatedPost
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}

	views := make([]models.PostView, len(raw))
	for i, p := range raw {
		views[i] = models.PostView{
			ID:             p.ID,
			Title:          p.Title,
			Body:           p.Body,
			CreatedDate:    p.CreatedDate,
			Author:         p.Author.ToCompact(),
			IsVisitorOwner: p.AuthorID == visitor,
		}
	}
	return views, nil
}

// CreatePost sanitizes and validates the candidate fields, inserts the
// post and returns its assigned id. On a *ValidationError nothing is
// written.
func (r *MongoPostRepository) CreatePost(ctx context.Context, title, body string, author primitive.ObjectID) (primitive.ObjectID, error) {
	title, body, vErr := cleanPost(title, body)
	if vErr != nil {
		return primitive.NilObjectID, vErr
	}

	post := models.Post{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Body:        body,
		Author:      author,
		CreatedDate: time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting post: %w", err)
	}
	return post.ID, nil
}

// FindSingleByID returns the post with the given hex id as seen by the
// visitor. A malformed id fails with ErrNotFound before any query runs.
func (r *MongoPostRepository) FindSingleByID(ctx context.Context, id string, visitor primitive.ObjectID) (*models.PostView, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	posts, err := r.queryPosts(ctx, []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: objID}}}},
	}, visitor)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return &posts[0], nil
}

// FindByAuthorID returns the author's posts, newest first.
func (r *MongoPostRepository) FindByAuthorID(ctx context.Context, author, visitor primitive.ObjectID) ([]models.PostView, error) {
	return r.queryPosts(ctx, []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "author", Value: author}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdDate", Value: -1}}}},
	}, visitor)
}

// Feed returns the newest-first posts authored by the users the visitor
// follows. An empty follow set yields an empty feed.
func (r *MongoPostRepository) Feed(ctx context.Context, visitor primitive.ObjectID) ([]models.PostView, error) {
	ids, err := r.follows.GetFollowedIDs(visitor.Hex())
	if err != nil {
		return nil, fmt.Errorf("resolving followed users: %w", err)
	}

	followed := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("follow edge holds malformed user id %q: %w", id, err)
		}
		followed = append(followed, objID)
	}

	return r.queryPosts(ctx, []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "author", Value: bson.D{{Key: "$in", Value: followed}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdDate", Value: -1}}}},
	}, visitor)
}

// Search matches posts against the text index on title and body, most
// relevant first. A blank term fails with ErrInvalidInput without querying.
func (r *MongoPostRepository) Search(ctx context.Context, term string, visitor primitive.ObjectID) ([]models.PostView, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrInvalidInput
	}

	return r.queryPosts(ctx, []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: term}}}}}},
	}, visitor,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}}},
	)
}

// UpdatePost overwrites title and body of the identified post after
// verifying the acting user owns it. Author and creation date are
// immutable. The ownership check and the write are not atomic; if the post
// vanishes in between, the update reports ErrNotFound.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id, title, body string, visitor primitive.ObjectID) error {
	existing, err := r.FindSingleByID(ctx, id, visitor)
	if err != nil {
		return err
	}
	if !existing.IsVisitorOwner {
		return ErrForbidden
	}

	title, body, vErr := cleanPost(title, body)
	if vErr != nil {
		return vErr
	}

	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": existing.ID},
		bson.M{"$set": bson.M{"title": title, "body": body}},
	)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("updating post: %w", err)
	}
	return nil
}

// DeletePost permanently removes the identified post after verifying the
// acting user owns it. There is no soft delete.
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string, visitor primitive.ObjectID) error {
	existing, err := r.FindSingleByID(ctx, id, visitor)
	if err != nil {
		return err
	}
	if !existing.IsVisitorOwner {
		return ErrForbidden
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": existing.ID})
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByAuthor returns the number of posts by the given author.
func (r *MongoPostRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"author": author})
	if err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return count, nil
}
