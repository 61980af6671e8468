package analyzer

import (
	"strings"

	"github.com/walteh/go-svelte-analyzer/pkg/ast"
)

// Known tag sets per namespace. An element whose name appears in none of
// its host namespace's sets is classified foreign; an element that only
// exists in a different namespace raises a namespace conflict.

func tagSet(names string) map[string]bool {
	set := make(map[string]bool)
	for _, n := range strings.Split(names, ",") {
		set[n] = true
	}
	return set
}

var htmlTags = tagSet("a,abbr,address,area,article,aside,audio,b,base,bdi,bdo,blockquote,body,br,button," +
	"canvas,caption,cite,code,col,colgroup,data,datalist,dd,del,details,dfn,dialog,div,dl,dt," +
	"em,embed,fieldset,figcaption,figure,footer,form,h1,h2,h3,h4,h5,h6,head,header,hgroup,hr," +
	"html,i,iframe,img,input,ins,kbd,label,legend,li,link,main,map,mark,menu,meta,meter,nav," +
	"noscript,object,ol,optgroup,option,output,p,picture,pre,progress,q,rp,rt,ruby,s,samp," +
	"script,search,section,select,slot,small,source,span,strong,style,sub,summary,sup,table," +
	"tbody,td,template,textarea,tfoot,th,thead,time,title,tr,track,u,ul,var,video,wbr")

var svgTags = tagSet("a,animate,animateMotion,animateTransform,circle,clipPath,defs,desc,ellipse," +
	"feBlend,feColorMatrix,feComponentTransfer,feComposite,feConvolveMatrix,feDiffuseLighting," +
	"feDisplacementMap,feDistantLight,feDropShadow,feFlood,feFuncA,feFuncB,feFuncG,feFuncR," +
	"feGaussianBlur,feImage,feMerge,feMergeNode,feMorphology,feOffset,fePointLight," +
	"feSpecularLighting,feSpotLight,feTile,feTurbulence,filter,foreignObject,g,image,line," +
	"linearGradient,marker,mask,metadata,mpath,path,pattern,polygon,polyline,radialGradient," +
	"rect,script,set,stop,style,svg,switch,symbol,text,textPath,title,tspan,use,view")

var mathmlTags = tagSet("annotation,annotation-xml,maction,math,merror,mfrac,mi,mmultiscripts,mn,mo," +
	"mover,mpadded,mphantom,mprescripts,mroot,mrow,ms,mspace,msqrt,mstyle,msub,msubsup,msup," +
	"mtable,mtd,mtext,mtr,munder,munderover,semantics")

func knownIn(ns ast.Namespace, name string) bool {
	switch ns {
	case ast.NamespaceSvg:
		return svgTags[name]
	case ast.NamespaceMathMl:
		return mathmlTags[name]
	case ast.NamespaceForeign:
		// Foreign namespaces accept anything.
		return true
	default:
		return htmlTags[strings.ToLower(name)]
	}
}

// homeNamespace finds the namespace a tag actually belongs to, preferring
// the host namespace, for best-effort classification of conflicts.
func homeNamespace(name string) (ast.Namespace, bool) {
	switch {
	case htmlTags[strings.ToLower(name)]:
		return ast.NamespaceHtml, true
	case svgTags[name]:
		return ast.NamespaceSvg, true
	case mathmlTags[name]:
		return ast.NamespaceMathMl, true
	}
	return ast.NamespaceHtml, false
}
