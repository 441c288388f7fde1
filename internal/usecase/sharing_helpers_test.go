package usecase_test

import (
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
)

// sharedFixture is alice's task t-1 shared with every recipient. Each
// recipient holds one copy with id "copy-<uid>".
type sharedFixture struct {
	store *testutil.MockSharingStore
	ref   domain.ItemRef
	owner string
}

func newSharedFixture(recipients ...string) *sharedFixture {
	store := testutil.NewMockSharingStore()
	f := &sharedFixture{
		store: store,
		ref:   domain.ItemRef{Kind: domain.KindTask, ID: "t-1"},
		owner: "alice",
	}

	it := task("t-1", "Quarterly report", at(2024, time.March, 20, 9, 0))
	it.OwnerID = f.owner
	it.SharedCount = len(recipients)
	store.UserItems(f.owner).Put(it)

	sharedAt := at(2024, time.March, 1, 9, 0)
	for i, uid := range recipients {
		store.DirRepo.Add(domain.Profile{UID: uid, Name: uid, ShareCode: 100 + i})
		store.ShareRepo.Records[f.owner+"/"+f.ref.String()] = withRecord(
			store.ShareRepo.Records[f.owner+"/"+f.ref.String()],
			domain.ShareRecord{UID: uid, Name: uid, SharedAt: sharedAt.Add(time.Duration(i) * time.Minute), ReceivedItemID: "copy-" + uid},
		)
		store.ReceivedRepo.Put(uid, &domain.ReceivedItem{
			ID:               "copy-" + uid,
			OriginalItemID:   "t-1",
			OriginalItemType: domain.KindTask,
			OriginalOwnerUID: f.owner,
			SenderUID:        f.owner,
			SenderName:       "Alice",
			SharedAt:         sharedAt,
			Data:             it.ShareSnapshot(),
		})
	}
	store.DirRepo.Add(domain.Profile{UID: f.owner, Name: "Alice", Email: "alice@example.com", ShareCode: 7})
	return f
}

func withRecord(m map[string]domain.ShareRecord, rec domain.ShareRecord) map[string]domain.ShareRecord {
	if m == nil {
		m = make(map[string]domain.ShareRecord)
	}
	m[rec.UID] = rec
	return m
}

func (f *sharedFixture) original() *domain.Item {
	return f.store.UserItems(f.owner).Peek(f.ref)
}

func (f *sharedFixture) copyOf(uid string) *domain.ReceivedItem {
	for _, r := range f.store.ReceivedRepo.All(uid) {
		if r.ID == "copy-"+uid {
			return r
		}
	}
	return nil
}
