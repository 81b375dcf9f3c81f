package repositories

import (
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound 는 조건에 맞는 문서가 없을 때 반환된다.
var ErrNotFound = errors.New("document not found")

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListQuery 는 콘텐츠 목록 조회 조건이다.
// Public 이면 게시된 문서만, 공개 정렬 순서로 조회한다.
type ListQuery struct {
	Public    bool
	Limit     int
	Cursor    string
	Search    string
	Published *bool
	Featured  *bool
	Tag       string
}

// CountQuery 는 대시보드 집계용 조건이다.
type CountQuery struct {
	Published *bool
	Featured  *bool
}

// ClampLimit 은 limit 을 [1, MaxPageSize] 로 맞추고, 0 이하면 def 를 사용한다.
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit
}

// searchFilter 는 fields 중 하나라도 search 를 대소문자 구분 없이 포함하는 문서를 고른다.
func searchFilter(search string, fields []string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" || len(fields) == 0 {
		return nil
	}
	pattern := regexp.QuoteMeta(search)
	or := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

// listFilter 는 ListQuery 를 Mongo 필터로 바꾼다. cursor 조건은 포함하지 않는다.
func listFilter(q ListQuery, searchFields []string) bson.M {
	base := bson.M{}
	if q.Public {
		base["published"] = true
	} else if q.Published != nil {
		base["published"] = *q.Published
	}
	if q.Featured != nil {
		base["featured"] = *q.Featured
	}
	if tag := strings.TrimSpace(q.Tag); tag != "" {
		base["tags"] = tag
	}
	if q.Public {
		return base
	}
	return andFilters(base, searchFilter(q.Search, searchFields))
}

func countFilter(q CountQuery) bson.M {
	f := bson.M{}
	if q.Published != nil {
		f["published"] = *q.Published
	}
	if q.Featured != nil {
		f["featured"] = *q.Featured
	}
	return f
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
