// comments.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package services

import (
	"github.com/Mistra-C2B2/samsyn-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// maxThreadDepth bounds reply nesting when building a comment tree.
// Comments below the bound are flattened onto their deepest kept
// ancestor rather than dropped.
const maxThreadDepth = 16

// CommentInput is the payload for creating a comment.
type CommentInput struct {
	MapID    *string `json:"map_id,omitempty"`
	LayerID  *string `json:"layer_id,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
	Body     string  `json:"body"`
}

// CreateComment validates and writes a comment. The comment must target
// exactly one of a map or a layer, the requester must be able to view a
// targeted map, and a parent reply must share the child's target. Nothing
// is written when validation fails.
func CreateComment(db *gorm.DB, authorID string, in CommentInput) (*models.Comment, error) {
	if in.Body == "" {
		return nil, ErrValidation
	}
	if (in.MapID != nil) == (in.LayerID != nil) {
		return nil, ErrValidation
	}

	c := models.Comment{
		AuthorID: authorID,
		MapID:    in.MapID,
		LayerID:  in.LayerID,
		ParentID: in.ParentID,
		Body:     in.Body,
	}

	if in.MapID != nil {
		if !CanViewMap(db, *in.MapID, authorID) {
			return nil, ErrNotPermitted
		}
	} else {
		if findLayer(db, *in.LayerID) == nil {
			return nil, ErrNotFound
		}
	}

	if in.ParentID != nil {
		var parent models.Comment
		err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
			Where("id = ?", *in.ParentID).First(&parent).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !parent.SameTarget(&c) {
			return nil, ErrValidation
		}
	}

	if err := db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CommentNode is a comment with its nested replies.
type CommentNode struct {
	models.Comment
	Replies []*CommentNode `json:"replies"`
}

// ListMapComments returns the threaded comments of a map the requester
// can view.
func ListMapComments(db *gorm.DB, mapID, requesterID string) ([]*CommentNode, error) {
	if !CanViewMap(db, mapID, requesterID) {
		return nil, ErrNotPermitted
	}

	var rows []models.Comment
	if err := db.Preload("Author").
		Where("map_id = ?", mapID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return buildCommentTree(rows), nil
}

// ListLayerComments returns the threaded comments of a layer.
func ListLayerComments(db *gorm.DB, layerID string) ([]*CommentNode, error) {
	if findLayer(db, layerID) == nil {
		return nil, ErrNotFound
	}

	var rows []models.Comment
	if err := db.Preload("Author").
		Where("layer_id = ?", layerID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return buildCommentTree(rows), nil
}

// buildCommentTree assembles the reply forest from one result set using a
// parent-to-children adjacency built once, instead of recursive point
// queries. Depth is walked iteratively level by level up to
// maxThreadDepth; anything deeper attaches to its last in-bound ancestor.
func buildCommentTree(rows []models.Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(rows))
	children := make(map[string][]string, len(rows))
	var rootIDs []string

	for i := range rows {
		nodes[rows[i].ID] = &CommentNode{Comment: rows[i], Replies: []*CommentNode{}}
	}
	for i := range rows {
		c := &rows[i]
		if c.ParentID != nil && nodes[*c.ParentID] != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		} else {
			// Orphaned parents (deleted out from under the reply) surface
			// the reply as a root
			rootIDs = append(rootIDs, c.ID)
		}
	}

	roots := make([]*CommentNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, nodes[id])
	}

	// attach is where the children of id get appended. Normally that is
	// the node for id itself; once the depth bound is reached it stays
	// pinned to the bound-level ancestor, so deeper replies come out as
	// flat siblings under it.
	type frame struct {
		id     string
		attach *CommentNode
		depth  int
	}
	queue := make([]frame, 0, len(rows))
	for _, r := range roots {
		queue = append(queue, frame{r.ID, r, 0})
	}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		for _, childID := range children[f.id] {
			child := nodes[childID]
			f.attach.Replies = append(f.attach.Replies, child)
			if f.depth+1 >= maxThreadDepth {
				queue = append(queue, frame{childID, f.attach, f.depth})
			} else {
				queue = append(queue, frame{childID, child, f.depth + 1})
			}
		}
	}

	return roots
}

// canModerateComment reports whether the requester may resolve or delete
// a comment they did not author: map editors for map comments, the layer
// creator or an everyone-editable grant for layer comments.
func canModerateComment(db *gorm.DB, c *models.Comment, requesterID string) bool {
	if requesterID == "" {
		return false
	}
	if c.AuthorID == requesterID {
		return true
	}
	if c.MapID != nil {
		return CanEditMap(db, *c.MapID, requesterID)
	}
	if c.LayerID != nil {
		return CanEditLayer(db, *c.LayerID, requesterID)
	}
	return false
}

// SetCommentResolved toggles the resolution flag.
func SetCommentResolved(db *gorm.DB, commentID, requesterID string, resolved bool) error {
	var c models.Comment
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", commentID).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if !canModerateComment(db, &c, requesterID) {
		return ErrNotPermitted
	}

	return db.Model(&c).Update("resolved", resolved).Error
}

// DeleteComment removes a comment and its reply subtree.
func DeleteComment(db *gorm.DB, commentID, requesterID string) error {
	var c models.Comment
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", commentID).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if !canModerateComment(db, &c, requesterID) {
		return ErrNotPermitted
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Gather the subtree breadth-first over the sibling set; the
		// target column keeps the candidate set to one map or layer.
		var siblings []models.Comment
		query := tx.Select("id", "parent_id")
		if c.MapID != nil {
			query = query.Where("map_id = ?", *c.MapID)
		} else {
			query = query.Where("layer_id = ?", *c.LayerID)
		}
		if err := query.Find(&siblings).Error; err != nil {
			return err
		}

		children := make(map[string][]string, len(siblings))
		for i := range siblings {
			if siblings[i].ParentID != nil {
				children[*siblings[i].ParentID] = append(children[*siblings[i].ParentID], siblings[i].ID)
			}
		}

		doomed := []string{c.ID}
		for cursor := 0; cursor < len(doomed); cursor++ {
			doomed = append(doomed, children[doomed[cursor]]...)
		}

		return tx.Where("id IN ?", doomed).Delete(&models.Comment{}).Error
	})
}
