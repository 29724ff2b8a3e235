package database

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/leca/image-cdn/internal/model"
)

const imagesTable = "images"

// queries builds the image statements for a given placeholder format so
// both backends share the same SQL.
type queries struct {
	b sq.StatementBuilderType
}

func newQueries(format sq.PlaceholderFormat) queries {
	return queries{b: sq.StatementBuilder.PlaceholderFormat(format)}
}

func (q queries) insertImage(img *model.Image) (string, []interface{}, error) {
	return q.b.Insert(imagesTable).
		Columns("id", "image_data", "mimetype").
		Values(img.ID, img.Data, img.MIMEType).
		ToSql()
}

func (q queries) selectImage(id string) (string, []interface{}, error) {
	return q.b.Select("id", "image_data", "mimetype").
		From(imagesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (q queries) deleteImage(id string) (string, []interface{}, error) {
	return q.b.Delete(imagesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}
