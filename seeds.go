package askcuny

// DefaultSeeds is the curated fallback page list probed by the built-in
// discovery strategy when no external search provider is configured.
// The list is configuration data versioned with the code.
var DefaultSeeds = []string{
	// Central admissions
	"https://www.cuny.edu/admissions/undergraduate/",
	"https://www.cuny.edu/admissions/graduate-studies/",
	"https://www.cuny.edu/admissions/undergraduate/apply/",
	"https://www.cuny.edu/admissions/undergraduate/transfer/",
	"https://www.cuny.edu/admissions/undergraduate/apply/application-review/",
	"https://www.cuny.edu/admissions/undergraduate/apply/credit/",
	"https://www.cuny.edu/admissions/undergraduate/apply/academic-profiles/",
	"https://www.cuny.edu/admissions/undergraduate/apply/cuny-application/",
	"https://www.cuny.edu/admissions/undergraduate/honors/",
	"https://www.cuny.edu/admissions/undergraduate/programs/",
	"https://www.cuny.edu/admissions/undergraduate/tours/",
	"https://www.cuny.edu/admissions/undergraduate/student-life/",
	"https://www.cuny.edu/admissions/undergraduate/downloads/",
	"https://www.cuny.edu/admissions/undergraduate/closed-academic-programs/",

	// Financial aid and costs
	"https://www.cuny.edu/financial-aid/",
	"https://www.cuny.edu/financial-aid/tuition-and-college-costs/",
	"https://www.cuny.edu/financial-aid/tuition-and-college-costs/tuition-fees/",

	// Academic programs and research
	"https://www.cuny.edu/academics/academic-programs/",
	"https://www.cuny.edu/academics/academic-programs/seek-college-discovery/",
	"https://www.cuny.edu/about/administration/offices/oareda/",

	// Individual college admissions
	"https://hunter.cuny.edu/admissions/undergraduate/",
	"https://hunter.cuny.edu/admissions/graduate-admissions/",
	"https://baruch.cuny.edu/admissions/",
	"https://www.ccny.cuny.edu/admissions",
	"https://www.brooklyn.cuny.edu/admissions",
	"https://www.queens.cuny.edu/admissions",
	"https://www.lehman.cuny.edu/admissions",
	"https://www.csi.cuny.edu/admissions",
	"https://york.cuny.edu/admissions",
	"https://www.mec.cuny.edu/admissions",
	"https://www.jjay.cuny.edu/admissions",

	// Law school
	"https://www.law.cuny.edu/admissions/",
	"https://www.law.cuny.edu/admissions/application-process/",
	"https://www.law.cuny.edu/admissions/requirements/",

	// International students
	"https://www.cuny.edu/academics/academic-programs/international-education/isss/",

	// Veterans
	"https://www.cuny.edu/about/university-resources/veterans-affairs/veterans-admissions/",

	// Reconnect program
	"https://www.cuny.edu/admissions/reconnect/",

	// External data sources for rankings and statistics
	"https://www.usnews.com/best-colleges/rankings/first-year-experience-programs",
	"https://www.princetonreview.com/college-rankings/",
	"https://www.niche.com/colleges/search/best-student-life/",
	"https://nces.ed.gov/ipeds",
	"https://ope.ed.gov/campussafety/#/institution/search",
}

// SiteRestriction is the fixed clause prepended to external search
// provider queries to restrict results to the allow-listed domains.
const SiteRestriction = "(site:cuny.edu OR site:nces.ed.gov OR site:usnews.com OR site:niche.com OR site:princetonreview.com)"
