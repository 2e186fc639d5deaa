package labels_test

import (
	"testing"

	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalogJapanese(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c, err := labels.NewCatalog("")
		So(err, ShouldBeNil)

		Convey("Then it should use the default locale", func() {
			So(c.Locale(), ShouldEqual, labels.DefaultLocale)
		})

		Convey("And categories should resolve to Japanese labels", func() {
			So(c.CategoryLabel(model.CategoryUpdate), ShouldEqual, "アップデート")
			So(c.CategoryLabel(model.CategoryEvent), ShouldEqual, "イベント")
			So(c.CategoryLabel(model.CategoryCollab), ShouldEqual, "コラボ")
			So(c.CategoryLabel(model.CategoryMaintenance), ShouldEqual, "メンテナンス")
		})

		Convey("And statuses should resolve to Japanese labels", func() {
			So(c.StatusLabel(model.StatusUpcoming), ShouldEqual, "予定")
			So(c.StatusLabel(model.StatusOngoing), ShouldEqual, "開催中")
			So(c.StatusLabel(model.StatusCompleted), ShouldEqual, "終了")
		})

		Convey("And filter labels should include all", func() {
			So(c.FilterLabel(model.FilterAll), ShouldEqual, "すべて")
			So(c.FilterLabel(model.Filter("collab")), ShouldEqual, "コラボ")
		})

		Convey("And unknown values should resolve to empty strings", func() {
			So(c.CategoryLabel("festival"), ShouldEqual, "")
			So(c.StatusLabel("paused"), ShouldEqual, "")
			So(c.FilterLabel("festival"), ShouldEqual, "")
			So(c.Message("nope"), ShouldEqual, "")
		})
	})
}

func TestCatalogEnglish(t *testing.T) {
	Convey("Given an English catalog", t, func() {
		c, err := labels.NewCatalog("en")
		So(err, ShouldBeNil)

		Convey("Then labels should be English", func() {
			So(c.CategoryLabel(model.CategoryUpdate), ShouldEqual, "Update")
			So(c.StatusLabel(model.StatusOngoing), ShouldEqual, "Ongoing")
			So(c.Message(labels.MsgBoardTitle), ShouldEqual, "Schedule")
		})
	})

	Convey("Given a locale without messages", t, func() {
		c, err := labels.NewCatalog("fr")
		So(err, ShouldBeNil)

		Convey("Then it should fall back to Japanese", func() {
			So(c.CategoryLabel(model.CategoryEvent), ShouldEqual, "イベント")
		})
	})

	Convey("Given an invalid locale", t, func() {
		_, err := labels.NewCatalog("not a locale!!")

		Convey("Then construction should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestStyleTables(t *testing.T) {
	Convey("Given the style tables", t, func() {
		Convey("Then known values should resolve", func() {
			So(labels.CategoryClass(model.CategoryUpdate), ShouldEqual, "category-update")
			So(labels.CategoryColor(model.CategoryEvent), ShouldEqual, "bg-red-100 text-red-800")
			So(labels.StatusClass(model.StatusOngoing), ShouldEqual, "status-ongoing")
			So(labels.StatusColor(model.StatusCompleted), ShouldEqual, "bg-gray-100 text-gray-800")
		})

		Convey("And unknown values should resolve to empty strings", func() {
			So(labels.CategoryClass("festival"), ShouldEqual, "")
			So(labels.StatusColor("paused"), ShouldEqual, "")
		})
	})
}
