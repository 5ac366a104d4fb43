/*
Package redisstore provides an mfe.ResultStore backed by a redis DB.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pbanos/mfe"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc      *redis.Client
	prefix  string
	rencdec mfe.RecordEncodeDecoder
}

/*
New takes a redis client, a prefix for the keys and a RecordEncodeDecoder
and returns an mfe.ResultStore saving records encoded with it on the redis
DB under keys formed by the prefix and the id of the record. A nil
RecordEncodeDecoder selects mfe.JSONRecordEncodeDecoder.
*/
func New(rc *redis.Client, prefix string, rencdec mfe.RecordEncodeDecoder) mfe.ResultStore {
	if rencdec == nil {
		rencdec = mfe.JSONRecordEncodeDecoder()
	}
	return &redisStore{rc, prefix, rencdec}
}

func (rs *redisStore) Save(ctx context.Context, name string, r *mfe.Result) (string, error) {
	record := &mfe.Record{Name: name, Result: r}
	var ok bool
	for !ok {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		record.ID = uuid.New().String()
		data, err := rs.rencdec.Encode(record)
		if err != nil {
			return "", fmt.Errorf("saving result: encoding record: %v", err)
		}
		ok, err = rs.rc.SetNX(rs.keyFor(record.ID), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("saving result in redis: %v", err)
		}
	}
	return record.ID, nil
}

func (rs *redisStore) Load(ctx context.Context, id string) (*mfe.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving result %q: %v", id, err)
	}
	record, err := rs.rencdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving result %q: decoding %q: %v", id, data, err)
	}
	return record, nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
