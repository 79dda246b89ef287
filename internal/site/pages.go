package site

import (
	"log"
	"net/http"
	"strings"

	"github.com/edgetopconsult/edge-site/internal/apiclient"
	"github.com/edgetopconsult/edge-site/internal/content"
	"github.com/edgetopconsult/edge-site/internal/flash"
)

type feature struct {
	Title       string
	Description string
}

type stat struct {
	Number string
	Label  string
	Desc   string
}

type person struct {
	Name  string
	Role  string
	Quote string
}

type step struct {
	Step        string
	Title       string
	Description string
	Details     []string
}

type opening struct {
	Title       string
	Department  string
	Type        string
	Location    string
	Description string
}

type homePage struct {
	Features []feature
	Stats    []stat
}

type aboutPage struct {
	Values []feature
	Team   []person
	Stats  []stat
}

type servicesPage struct {
	Services []feature
	Process  []step
}

type testimonialsPage struct {
	Testimonials []person
	Stats        []stat
}

type howItWorksPage struct {
	Steps    []step
	Timeline []step
	FAQ      []feature
}

type jobsPage struct {
	Openings []opening
	Benefits []feature
}

var home = homePage{
	Features: []feature{
		{"Global Opportunities", "Scholarships, study abroad & internships worldwide."},
		{"Expert Guidance", "Professional consulting for academics & career."},
		{"Personalized Support", "Solutions tailored to your unique goals."},
	},
	Stats: []stat{
		{Number: "500+", Label: "Success Stories"},
		{Number: "50+", Label: "Countries"},
		{Number: "24/7", Label: "Support"},
		{Number: "100%", Label: "Commitment"},
	},
}

var about = aboutPage{
	Values: []feature{
		{"Customer-Focused", "Every engagement starts with the goals of the people we serve."},
		{"Innovation-Driven", "We look for new routes to opportunities others overlook."},
		{"Excellence", "We hold our guidance and our documents to international standards."},
	},
	Team: []person{
		{Name: "Sarah Johnson", Role: "CEO & Founder"},
		{Name: "Michael Chen", Role: "CTO"},
		{Name: "Emily Rodriguez", Role: "Head of Operations"},
	},
	Stats: []stat{
		{Number: "2018", Label: "Founded"},
		{Number: "500+", Label: "Projects Completed"},
		{Number: "50+", Label: "Team Members"},
		{Number: "25+", Label: "Industry Awards"},
	},
}

var services = servicesPage{
	Services: []feature{
		{"Scholarship & Study Abroad Guidance", "Up-to-date information on scholarships and admissions worldwide, with step-by-step application guidance."},
		{"Academic & Career Consulting", "Tailored consulting for choosing academic paths and planning career transitions for a brighter future."},
		{"Academic Research Support", "Comprehensive research assistance with guidance, resources, and support for scholarly excellence."},
		{"CV, SOP & Document Preparation", "Professional document crafting that meets international standards and helps you stand out."},
		{"Digital & Printing Solutions", "Reliable digital hub services including typing, printing, scanning, and general ICT support."},
		{"Edge Elevate Talk", "Motivational and inspirational talks fostering personal growth, resilience, and success-driven mindsets."},
	},
	Process: []step{
		{Step: "01", Title: "Discovery", Description: "We analyze your needs and requirements"},
		{Step: "02", Title: "Planning", Description: "Strategic roadmap and project planning"},
		{Step: "03", Title: "Development", Description: "Building your solution with agile methodology"},
		{Step: "04", Title: "Delivery", Description: "Testing, deployment, and ongoing support"},
	},
}

var testimonials = testimonialsPage{
	Testimonials: []person{
		{"Sarah Mitchell", "CEO, TechFlow Solutions", "Edge Top Consult guided our team through every step and delivered beyond what we asked for."},
		{"David Chen", "CTO, InnovateCorp", "Clear communication, honest timelines and results we could measure."},
		{"Maria Rodriguez", "Operations Director, GrowthLab", "Their planning made a complicated project feel simple."},
		{"James Wilson", "Founder, StartupBoost", "The consulting sessions changed how we approach growth."},
		{"Lisa Thompson", "IT Manager, SecureBank", "Professional, responsive and thorough from start to finish."},
		{"Robert Kim", "VP of Technology, DataDriven", "We keep coming back because the quality never drops."},
	},
	Stats: []stat{
		{"98%", "Client Satisfaction", "Based on project completion surveys"},
		{"4.9/5", "Average Rating", "Across all client reviews"},
		{"95%", "Repeat Clients", "Come back for additional projects"},
		{"100%", "On-Time Delivery", "Projects completed within deadline"},
	},
}

var howItWorks = howItWorksPage{
	Steps: []step{
		{Step: "01", Title: "Initial Consultation", Description: "We start with a detailed discussion to understand your business needs, challenges, and goals.",
			Details: []string{"Needs assessment", "Goal setting", "Budget planning"}},
		{Step: "02", Title: "Project Planning", Description: "Our team creates a comprehensive project plan with timelines, milestones, and deliverables.",
			Details: []string{"Timeline creation", "Resource allocation", "Milestone definition"}},
		{Step: "03", Title: "Development & Implementation", Description: "We execute the plan using agile methodology with regular updates and feedback sessions.",
			Details: []string{"Agile sprints", "Regular check-ins", "Quality assurance"}},
		{Step: "04", Title: "Launch & Support", Description: "We deploy your solution and provide ongoing support to ensure continued success.",
			Details: []string{"Deployment", "Training", "Ongoing support"}},
	},
	Timeline: []step{
		{Step: "Week 1-2", Title: "Discovery & Planning", Description: "Requirements gathering and project setup"},
		{Step: "Week 3-8", Title: "Development", Description: "Core development and feature implementation"},
		{Step: "Week 9-10", Title: "Testing & Refinement", Description: "Quality assurance and final adjustments"},
		{Step: "Week 11+", Title: "Launch & Support", Description: "Deployment and ongoing maintenance"},
	},
	FAQ: []feature{
		{"How long does a typical engagement take?", "Most engagements run between eight and twelve weeks, depending on scope."},
		{"Do you work with individuals as well as organisations?", "Yes. Scholarship and career guidance is offered one to one."},
		{"What happens after launch?", "We stay available for support and follow-up sessions."},
	},
}

var jobs = jobsPage{
	Openings: []opening{
		{"Senior Full Stack Developer", "Engineering", "Full-time", "Remote / New York", "Join our engineering team to build cutting-edge web applications using React, Node.js, and cloud technologies."},
		{"DevOps Engineer", "Engineering", "Full-time", "San Francisco / Remote", "Lead our infrastructure automation and help scale our cloud platforms to support growing business needs."},
		{"UX/UI Designer", "Design", "Full-time", "Remote", "Create beautiful, intuitive user experiences that delight our clients and drive business results."},
		{"Product Manager", "Product", "Full-time", "New York / Remote", "Drive product strategy and work closely with engineering and design teams to deliver exceptional products."},
		{"Business Development Manager", "Sales", "Full-time", "Chicago / Remote", "Identify new business opportunities and build relationships with potential clients in the enterprise market."},
		{"Data Scientist", "Data", "Full-time", "Boston / Remote", "Analyze complex datasets to provide insights that drive business decisions and improve our products."},
	},
	Benefits: []feature{
		{"Health & Wellness", "Comprehensive health insurance, dental, vision, and wellness programs"},
		{"Competitive Compensation", "Market-leading salaries, equity options, and performance bonuses"},
		{"Work-Life Balance", "Flexible hours, unlimited PTO, and remote work opportunities"},
		{"Growth & Development", "Learning budget, conference attendance, and mentorship programs"},
	},
}

// static serves a page whose content does not come from the API.
func (s *Server) static(page, title string, data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, page, title, data)
	}
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	if !content.ValidEmail(email) {
		flash.Set(w, flash.Error, "Please enter a valid email address.")
		redirectBack(w, r, "/")
		return
	}
	msg, err := s.api.Subscribe(r.Context(), email)
	if err != nil {
		log.Printf("site: subscribe: %v", err)
		flash.Set(w, flash.Error, apiclient.Message(err, "Subscription failed. Please try again."))
		redirectBack(w, r, "/")
		return
	}
	if msg == "" {
		msg = "Successfully subscribed!"
	}
	flash.Set(w, flash.Success, msg)
	redirectBack(w, r, "/")
}
