package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/thip-platform/disclosure-backend/config"
	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
	"github.com/thip-platform/disclosure-backend/internal/refdata"
	"github.com/thip-platform/disclosure-backend/internal/storage/postgres"
)

// Portal vocabularies. Sector codes follow the OC4IDS sector codelist;
// ministry names are the Thai cabinet ministries; classification values are
// seeded under their Thai filter-dimension schemes.
var sectors = []string{
	"transport.road", "transport.rail", "transport.air", "transport.water",
	"waterAndWaste", "energy", "communications", "health", "education",
	"socialHousing", "cultureSportsAndRecreation", "others",
}

var ministries = []string{
	"กระทรวงกลาโหม",
	"กระทรวงการคลัง",
	"กระทรวงการต่างประเทศ",
	"กระทรวงการท่องเที่ยวและกีฬา",
	"กระทรวงการพัฒนาสังคมและความมั่นคงของมนุษย์",
	"กระทรวงการอุดมศึกษา วิทยาศาสตร์ วิจัยและนวัตกรรม",
	"กระทรวงเกษตรและสหกรณ์",
	"กระทรวงคมนาคม",
	"กระทรวงทรัพยากรธรรมชาติและสิ่งแวดล้อม",
	"กระทรวงดิจิทัลเพื่อเศรษฐกิจและสังคม",
	"กระทรวงพลังงาน",
	"กระทรวงพาณิชย์",
	"กระทรวงมหาดไทย",
	"กระทรวงยุติธรรม",
	"กระทรวงแรงงาน",
	"กระทรวงวัฒนธรรม",
	"กระทรวงศึกษาธิการ",
	"กระทรวงสาธารณสุข",
	"กระทรวงอุตสาหกรรม",
	"สำนักนายกรัฐมนตรี",
	"อื่น ๆ",
}

var contractTypes = []string{"BTO", "BOT", "BTO/BOT"}

var concessionForms = []string{"PPP Net Cost", "Gross Cost", "อื่น ๆ"}

var projectTypes = []struct {
	Code   string
	NameTH string
}{
	{"PT01", "ท่าเรือ"},
	{"PT02", "รถไฟฟ้า"},
	{"PT03", "ท่าอากาศยาน"},
	{"PT04", "ทางพิเศษ"},
	{"PT05", "รถไฟ"},
	{"PT06", "ทางหลวง"},
	{"PT07", "ศูนย์นิทรรศการและศูนย์การประชุม"},
	{"PT08", "การขนส่งทางถนน"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	log.Println("Schema is in place")

	if err := seed(ctx, db); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("Reference data initialized successfully")
}

func seed(ctx context.Context, db *sql.DB) error {
	refs := refdata.NewResolver(db)

	for _, code := range sectors {
		if _, err := refs.Sector(ctx, code); err != nil {
			return fmt.Errorf("sector %s: %w", code, err)
		}
	}
	log.Printf("Seeded %d sectors", len(sectors))

	for _, name := range ministries {
		if _, err := refs.Ministry(ctx, name); err != nil {
			return fmt.Errorf("ministry %s: %w", name, err)
		}
	}
	log.Printf("Seeded %d ministries", len(ministries))

	for _, v := range contractTypes {
		v := v
		if _, err := refs.Classification(ctx, oc4ids.SchemeContractType, v, &v, nil); err != nil {
			return fmt.Errorf("contract type %s: %w", v, err)
		}
	}
	for _, v := range concessionForms {
		v := v
		if _, err := refs.Classification(ctx, oc4ids.SchemeConcessionForm, v, &v, nil); err != nil {
			return fmt.Errorf("concession form %s: %w", v, err)
		}
	}
	log.Printf("Seeded %d contract types, %d concession forms", len(contractTypes), len(concessionForms))

	// Project types carry display names the resolver's bare-code path does
	// not set, so they get their own upsert.
	const insProjectType = `
insert into project_type (code, name_th, name_en, description)
values ($1, $2, $3, $2)
on conflict (code) do nothing;
`
	for i, pt := range projectTypes {
		nameEN := fmt.Sprintf("Project Type %d", i+1)
		if _, err := db.ExecContext(ctx, insProjectType, pt.Code, pt.NameTH, nameEN); err != nil {
			return fmt.Errorf("project type %s: %w", pt.Code, err)
		}
	}
	log.Printf("Seeded %d project types", len(projectTypes))

	periodCodes := append(append([]string{}, oc4ids.PeriodCodes...), oc4ids.PeriodAssetLifetime)
	for _, code := range periodCodes {
		if err := refs.PeriodType(ctx, code); err != nil {
			return fmt.Errorf("period type %s: %w", code, err)
		}
	}
	log.Printf("Seeded %d period types", len(periodCodes))

	if err := refs.Currency(ctx, "THB"); err != nil {
		return fmt.Errorf("currency THB: %w", err)
	}
	return nil
}
