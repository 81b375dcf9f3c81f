package repositories

import (
	"encoding/base64"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrInvalidCursor 는 클라이언트가 보낸 cursor 를 해석할 수 없을 때 반환된다.
var ErrInvalidCursor = errors.New("invalid cursor")

// SortKey 는 정렬 기준 필드 하나다. 목록 정렬의 마지막 키는 항상 _id 여야 순서가 유일하게 정해진다.
type SortKey struct {
	Field string
	Desc  bool
}

func withIDTieBreak(keys []SortKey) []SortKey {
	if len(keys) > 0 && keys[len(keys)-1].Field == "_id" {
		return keys
	}
	out := make([]SortKey, 0, len(keys)+1)
	out = append(out, keys...)
	return append(out, SortKey{Field: "_id", Desc: true})
}

func sortDoc(keys []SortKey) bson.D {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	return d
}

// EncodeCursor 는 다음 페이지 첫 문서의 정렬 키 값을 canonical Extended JSON 으로 직렬화한 뒤
// base64url 로 감싼다. 타입 정보($date, $oid 등)가 보존되므로 그대로 비교 조건에 쓸 수 있다.
func EncodeCursor(values bson.D) (string, error) {
	data, err := bson.MarshalExtJSON(values, true, false)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeCursor 는 EncodeCursor 의 역이다. 키 구성이 keys 와 다르면 ErrInvalidCursor 를 반환한다.
func DecodeCursor(cursor string, keys []SortKey) (bson.D, error) {
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var values bson.D
	if err := bson.UnmarshalExtJSON(data, true, &values); err != nil {
		return nil, ErrInvalidCursor
	}
	if len(values) != len(keys) {
		return nil, ErrInvalidCursor
	}
	for i, k := range keys {
		if values[i].Key != k.Field {
			return nil, ErrInvalidCursor
		}
	}
	return values, nil
}

// cursorValues 는 원본 문서에서 정렬 키 값만 뽑아낸다.
func cursorValues(raw bson.Raw, keys []SortKey) (bson.D, error) {
	values := make(bson.D, 0, len(keys))
	for _, k := range keys {
		rv, err := raw.LookupErr(k.Field)
		if err != nil {
			values = append(values, bson.E{Key: k.Field, Value: nil})
			continue
		}
		var v interface{}
		if err := rv.Unmarshal(&v); err != nil {
			return nil, fmt.Errorf("read cursor field %s: %w", k.Field, err)
		}
		values = append(values, bson.E{Key: k.Field, Value: v})
	}
	return values, nil
}

// keysetFilter 는 정렬 순서상 values 위치의 문서부터(포함) 그 뒤 문서들을 고르는 조건을 만든다.
//
//	(k1 > v1) OR (k1 = v1 AND k2 > v2) OR ... OR (k1 = v1 AND ... AND kn = vn)
//
// 내림차순 키는 > 대신 < 를 쓴다. 마지막 항은 cursor 문서 자신을 포함시킨다.
func keysetFilter(keys []SortKey, values bson.D) bson.M {
	or := make([]bson.M, 0, len(keys)+1)
	for i, k := range keys {
		clause := bson.M{}
		for j := 0; j < i; j++ {
			clause[keys[j].Field] = values[j].Value
		}
		op := "$gt"
		if k.Desc {
			op = "$lt"
		}
		clause[k.Field] = bson.M{op: values[i].Value}
		or = append(or, clause)
	}
	exact := bson.M{}
	for i, k := range keys {
		exact[k.Field] = values[i].Value
	}
	or = append(or, exact)
	return bson.M{"$or": or}
}

func andFilters(filters ...bson.M) bson.M {
	nonEmpty := make([]bson.M, 0, len(filters))
	for _, f := range filters {
		if len(f) > 0 {
			nonEmpty = append(nonEmpty, f)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return bson.M{}
	case 1:
		return nonEmpty[0]
	default:
		return bson.M{"$and": nonEmpty}
	}
}
